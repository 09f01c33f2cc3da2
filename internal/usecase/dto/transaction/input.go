package transactiondto

type CreateTransactionInput struct {
	ListingID     string
	BuyerID       string
	AgreedPrice   int64
	PayerIdentity string
	OfferID       string

	// Facts forwarded to the risk gate.
	BuyerAccountAgeDays int64
	BuyerVerified       bool
}

type RequestPaymentInput struct {
	TransactionID string
	BuyerID       string
	Method        string
}

type PaymentSettledInput struct {
	ExternalRef string
	PaidAt      int64 // unix seconds from the processor callback
}

type PaymentFailedInput struct {
	ExternalRef string
	Reason      string
}

type CancelTransactionInput struct {
	TransactionID string
	ActorID       string
	Reason        string
}
