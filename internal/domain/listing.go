package domain

import "time"

type ListingStatus string

const (
	ListingActive    ListingStatus = "ACTIVE"
	ListingReserved  ListingStatus = "RESERVED"
	ListingSold      ListingStatus = "SOLD"
	ListingSuspended ListingStatus = "SUSPENDED"
)

// Listing is an advertised, transferable event reservation. Only the facts
// the escrow core needs are modeled here; catalog concerns live elsewhere.
type Listing struct {
	ID          string
	SellerID    string
	Title       string
	VenueName   string
	EventDate   time.Time
	AskingPrice int64
	Status      ListingStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (l *Listing) Sellable() bool {
	return l.Status == ListingActive
}

type ListingRepository interface {
	CreateListing(listing *Listing) error
	GetListingByID(listingID string) (*Listing, error)
	UpdateListingStatus(listingID string, status ListingStatus) error
}
