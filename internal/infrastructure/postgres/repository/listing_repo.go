package repository

import (
	"time"

	"github.com/repassafesta/escrow-service/internal/domain"
	"github.com/repassafesta/escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/repassafesta/escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultListingRepository struct {
	db *gorm.DB
}

func NewDefaultListingRepository(db *gorm.DB) *DefaultListingRepository {
	return &DefaultListingRepository{db: db}
}

func (r *DefaultListingRepository) CreateListing(listing *domain.Listing) error {
	return r.db.Create(mappers.ToGORMListing(listing)).Error
}

func (r *DefaultListingRepository) GetListingByID(listingID string) (*domain.Listing, error) {
	var model models.ListingModel
	if err := r.db.First(&model, "id = ?", listingID).Error; err != nil {
		return nil, err
	}
	return mappers.ToDomainListing(&model), nil
}

func (r *DefaultListingRepository) UpdateListingStatus(listingID string, status domain.ListingStatus) error {
	return r.db.Model(&models.ListingModel{}).
		Where("id = ?", listingID).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": time.Now(),
		}).Error
}
