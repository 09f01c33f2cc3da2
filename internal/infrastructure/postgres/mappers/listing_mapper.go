package mappers

import (
	"github.com/repassafesta/escrow-service/internal/domain"
	"github.com/repassafesta/escrow-service/internal/infrastructure/postgres/models"
)

func ToDomainListing(model *models.ListingModel) *domain.Listing {
	return &domain.Listing{
		ID:          model.ID,
		SellerID:    model.SellerID,
		Title:       model.Title,
		VenueName:   model.VenueName,
		EventDate:   model.EventDate,
		AskingPrice: model.AskingPrice,
		Status:      domain.ListingStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func ToGORMListing(listing *domain.Listing) *models.ListingModel {
	return &models.ListingModel{
		ID:          listing.ID,
		SellerID:    listing.SellerID,
		Title:       listing.Title,
		VenueName:   listing.VenueName,
		EventDate:   listing.EventDate,
		AskingPrice: listing.AskingPrice,
		Status:      string(listing.Status),
		CreatedAt:   listing.CreatedAt,
		UpdatedAt:   listing.UpdatedAt,
	}
}
