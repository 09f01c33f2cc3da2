package mappers

import (
	"github.com/repassafesta/escrow-service/internal/domain"
	"github.com/repassafesta/escrow-service/internal/infrastructure/postgres/models"
)

func ToDomainOffer(model *models.OfferModel) *domain.Offer {
	return &domain.Offer{
		ID:             model.ID,
		ListingID:      model.ListingID,
		BuyerID:        model.BuyerID,
		SellerID:       model.SellerID,
		Amount:         model.Amount,
		Message:        model.Message,
		Status:         domain.OfferStatus(model.Status),
		CounterAmount:  model.CounterAmount,
		CounterMessage: model.CounterMessage,
		PayerIdentity:  model.PayerIdentity,
		BuyerAgeDays:   model.BuyerAgeDays,
		BuyerVerified:  model.BuyerVerified,
		ExpiresAt:      model.ExpiresAt,
		RespondedAt:    model.RespondedAt,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

func ToGORMOffer(offer *domain.Offer) *models.OfferModel {
	return &models.OfferModel{
		ID:             offer.ID,
		ListingID:      offer.ListingID,
		BuyerID:        offer.BuyerID,
		SellerID:       offer.SellerID,
		Amount:         offer.Amount,
		Message:        offer.Message,
		Status:         string(offer.Status),
		CounterAmount:  offer.CounterAmount,
		CounterMessage: offer.CounterMessage,
		PayerIdentity:  offer.PayerIdentity,
		BuyerAgeDays:   offer.BuyerAgeDays,
		BuyerVerified:  offer.BuyerVerified,
		ExpiresAt:      offer.ExpiresAt,
		RespondedAt:    offer.RespondedAt,
		CreatedAt:      offer.CreatedAt,
		UpdatedAt:      offer.UpdatedAt,
	}
}
