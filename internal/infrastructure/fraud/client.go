// Package fraud is the HTTP client for the risk-scoring service. The
// scoring algorithm is opaque to the escrow core; only the level and
// recommendation are consumed, for gating transaction creation.
package fraud

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

type HTTPFraudClient struct {
	address string
	client  *http.Client
}

func NewHTTPFraudClient(address string, timeout time.Duration) *HTTPFraudClient {
	return &HTTPFraudClient{
		address: address,
		client:  &http.Client{Timeout: timeout},
	}
}

type scoreRequest struct {
	UserID         string `json:"user_id"`
	AccountAgeDays int64  `json:"account_age_days"`
	Verified       bool   `json:"verified"`
	ListingID      string `json:"listing_id"`
	SellerID       string `json:"seller_id"`
	AskingPrice    int64  `json:"asking_price"`
}

type scoreResponse struct {
	Score          float64 `json:"score"`
	Level          string  `json:"level"`
	Recommendation string  `json:"recommendation"`
}

func (c *HTTPFraudClient) Score(ctx context.Context, account *domain.AccountFacts, listing *domain.ListingFacts) (*domain.RiskAssessment, error) {
	body, err := json.Marshal(scoreRequest{
		UserID:         account.UserID,
		AccountAgeDays: account.AccountAgeDays,
		Verified:       account.Verified,
		ListingID:      listing.ListingID,
		SellerID:       listing.SellerID,
		AskingPrice:    listing.AskingPrice,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/score", c.address), bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	response, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, fmt.Errorf("fraud service returned status %d", response.StatusCode)
	}

	var scoreResp scoreResponse
	if err := json.Unmarshal(responseBody, &scoreResp); err != nil {
		return nil, err
	}

	return &domain.RiskAssessment{
		Score:          scoreResp.Score,
		Level:          domain.RiskLevel(scoreResp.Level),
		Recommendation: domain.RiskRecommendation(scoreResp.Recommendation),
	}, nil
}
