package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/repassafesta/escrow-service/internal/domain"
	"github.com/repassafesta/escrow-service/internal/infrastructure/postgres/mappers"
	"github.com/repassafesta/escrow-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultOfferRepository struct {
	db *gorm.DB
}

func NewDefaultOfferRepository(db *gorm.DB) *DefaultOfferRepository {
	return &DefaultOfferRepository{db: db}
}

func (r *DefaultOfferRepository) CreateOffer(offer *domain.Offer) error {
	model := mappers.ToGORMOffer(offer)
	if err := r.db.Create(model).Error; err != nil {
		if isUniqueViolation(err, "idx_pending_offer_listing_buyer") {
			return domain.ErrDuplicatePendingOffer
		}
		return fmt.Errorf("creating offer: %w", err)
	}
	return nil
}

func (r *DefaultOfferRepository) GetOfferByID(offerID string) (*domain.Offer, error) {
	var model models.OfferModel
	if err := r.db.First(&model, "id = ?", offerID).Error; err != nil {
		return nil, err
	}
	return mappers.ToDomainOffer(&model), nil
}

func (r *DefaultOfferRepository) GetPendingByListingBuyer(listingID, buyerID string) (*domain.Offer, error) {
	var model models.OfferModel
	err := r.db.
		Where("listing_id = ? AND buyer_id = ? AND status = ?", listingID, buyerID, string(domain.OfferPending)).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mappers.ToDomainOffer(&model), nil
}

func (r *DefaultOfferRepository) ListByListing(listingID string) ([]*domain.Offer, error) {
	var offerModels []models.OfferModel
	if err := r.db.
		Where("listing_id = ?", listingID).
		Order("created_at DESC").
		Find(&offerModels).Error; err != nil {
		return nil, err
	}
	offers := make([]*domain.Offer, len(offerModels))
	for i := range offerModels {
		offers[i] = mappers.ToDomainOffer(&offerModels[i])
	}
	return offers, nil
}

// UpdateStatusCAS moves the offer out of PENDING. The guarded WHERE makes
// two concurrent respond() calls race safely: the loser gets
// ErrOfferNotPending.
func (r *DefaultOfferRepository) UpdateStatusCAS(offerID string, to domain.OfferStatus, set map[string]any) error {
	updates := map[string]any{
		"status":     string(to),
		"updated_at": time.Now(),
	}
	for column, value := range set {
		updates[column] = value
	}

	result := r.db.Model(&models.OfferModel{}).
		Where("id = ?", offerID).
		Where("status = ?", string(domain.OfferPending)).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrOfferNotPending
	}
	return nil
}

func (r *DefaultOfferRepository) RevertAcceptance(offerID string) error {
	result := r.db.Model(&models.OfferModel{}).
		Where("id = ?", offerID).
		Where("status = ?", string(domain.OfferAccepted)).
		Updates(map[string]any{
			"status":       string(domain.OfferPending),
			"responded_at": nil,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrOfferNotPending
	}
	return nil
}

func (r *DefaultOfferRepository) ExpirePendingSiblings(listingID, acceptedOfferID string) ([]string, error) {
	var siblings []models.OfferModel
	if err := r.db.
		Where("listing_id = ? AND status = ? AND id <> ?", listingID, string(domain.OfferPending), acceptedOfferID).
		Find(&siblings).Error; err != nil {
		return nil, err
	}
	if len(siblings) == 0 {
		return nil, nil
	}

	now := time.Now()
	result := r.db.Model(&models.OfferModel{}).
		Where("listing_id = ? AND status = ? AND id <> ?", listingID, string(domain.OfferPending), acceptedOfferID).
		Updates(map[string]any{
			"status":       string(domain.OfferExpired),
			"responded_at": now,
			"updated_at":   now,
		})
	if result.Error != nil {
		return nil, result.Error
	}

	buyerIDs := make([]string, 0, len(siblings))
	for _, sibling := range siblings {
		buyerIDs = append(buyerIDs, sibling.BuyerID)
	}
	return buyerIDs, nil
}

func (r *DefaultOfferRepository) FindExpiredPending(now time.Time) ([]*domain.Offer, error) {
	var offerModels []models.OfferModel
	if err := r.db.
		Where("status = ?", string(domain.OfferPending)).
		Where("expires_at < ?", now).
		Find(&offerModels).Error; err != nil {
		return nil, err
	}
	offers := make([]*domain.Offer, len(offerModels))
	for i := range offerModels {
		offers[i] = mappers.ToDomainOffer(&offerModels[i])
	}
	return offers, nil
}
