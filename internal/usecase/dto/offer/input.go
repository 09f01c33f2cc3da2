package offerdto

type CreateOfferInput struct {
	ListingID string
	BuyerID   string
	Amount    int64
	Message   string

	// Snapshotted for the transaction opened on acceptance.
	PayerIdentity       string
	BuyerAccountAgeDays int64
	BuyerVerified       bool
}

type RespondOfferInput struct {
	OfferID        string
	SellerID       string
	CounterAmount  int64
	CounterMessage string
}
