package domain

import "context"

type CreateChargeInput struct {
	PayerIdentity string
	Amount        int64
	Method        string
	Reference     string
}

type ChargeResult struct {
	ExternalRef string
	QRPayload   string
	RedirectURL string
}

// PaymentClient creates charges with the external processor. Settlement is
// delivered later through the processor's webhook, not by this client.
type PaymentClient interface {
	CreateCharge(ctx context.Context, input *CreateChargeInput) (*ChargeResult, error)
}
