package domain

import "time"

type OfferStatus string

const (
	OfferPending   OfferStatus = "PENDING"
	OfferAccepted  OfferStatus = "ACCEPTED"
	OfferRejected  OfferStatus = "REJECTED"
	OfferCountered OfferStatus = "COUNTERED"
	OfferExpired   OfferStatus = "EXPIRED"
)

// Offer is a non-binding proposed price on a listing. A countered offer is
// terminal for this record: the buyer answers a counter with a fresh offer.
// The buyer's payer identity and risk facts are snapshotted at offer time
// so acceptance can open the transaction without a second buyer round-trip.
type Offer struct {
	ID             string
	ListingID      string
	BuyerID        string
	SellerID       string
	Amount         int64
	Message        string
	Status         OfferStatus
	CounterAmount  int64
	CounterMessage string
	PayerIdentity  string
	BuyerAgeDays   int64
	BuyerVerified  bool
	ExpiresAt      time.Time
	RespondedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type OfferRepository interface {
	CreateOffer(offer *Offer) error
	GetOfferByID(offerID string) (*Offer, error)
	GetPendingByListingBuyer(listingID, buyerID string) (*Offer, error)
	ListByListing(listingID string) ([]*Offer, error)

	// UpdateStatusCAS succeeds only while the offer is still PENDING.
	// Losers of a respond race observe ErrOfferNotPending.
	UpdateStatusCAS(offerID string, to OfferStatus, set map[string]any) error

	// RevertAcceptance compensates a failed accept: the offer goes back
	// from ACCEPTED to PENDING when no transaction could be created.
	RevertAcceptance(offerID string) error

	// ExpirePendingSiblings expires every PENDING offer on the listing
	// except the accepted one. Returns the buyer ids of expired offers.
	ExpirePendingSiblings(listingID, acceptedOfferID string) ([]string, error)

	FindExpiredPending(now time.Time) ([]*Offer, error)
}
