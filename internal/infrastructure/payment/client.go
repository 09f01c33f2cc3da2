// Package payment is the HTTP client for the external payment processor.
// It creates charges; settlement comes back later through the processor's
// webhook, handled by the delivery layer. Timeouts are owned here, not by
// the callers.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/repassafesta/escrow-service/internal/domain"
)

type HTTPPaymentClient struct {
	address string
	client  *http.Client
}

func NewHTTPPaymentClient(address string, timeout time.Duration) *HTTPPaymentClient {
	return &HTTPPaymentClient{
		address: address,
		client:  &http.Client{Timeout: timeout},
	}
}

type createChargeRequest struct {
	PayerIdentity string `json:"payer_identity"`
	AmountCents   int64  `json:"amount_cents"`
	Method        string `json:"method"`
	Reference     string `json:"reference"`
}

type createChargeResponse struct {
	ExternalID  string `json:"external_id"`
	QRPayload   string `json:"qr_payload,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *HTTPPaymentClient) CreateCharge(ctx context.Context, input *domain.CreateChargeInput) (*domain.ChargeResult, error) {
	body, err := json.Marshal(createChargeRequest{
		PayerIdentity: input.PayerIdentity,
		AmountCents:   input.Amount,
		Method:        input.Method,
		Reference:     input.Reference,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/charges", c.address), bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	response, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPaymentRequestFailed, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		var errResp errorResponse
		if err := json.Unmarshal(responseBody, &errResp); err != nil || errResp.Error == "" {
			return nil, fmt.Errorf("%w: processor returned status %d", domain.ErrPaymentRequestFailed, response.StatusCode)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrPaymentRequestFailed, errResp.Error)
	}

	var chargeResp createChargeResponse
	if err := json.Unmarshal(responseBody, &chargeResp); err != nil {
		return nil, err
	}

	return &domain.ChargeResult{
		ExternalRef: chargeResp.ExternalID,
		QRPayload:   chargeResp.QRPayload,
		RedirectURL: chargeResp.RedirectURL,
	}, nil
}
