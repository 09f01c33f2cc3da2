package transactiondto

type PaymentInstructions struct {
	PaymentID   string
	ExternalRef string
	Amount      int64
	QRPayload   string
	RedirectURL string
}
