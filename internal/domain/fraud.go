package domain

import "context"

type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

type RiskRecommendation string

const (
	RecommendAllow  RiskRecommendation = "ALLOW"
	RecommendReview RiskRecommendation = "REVIEW"
	RecommendBlock  RiskRecommendation = "BLOCK"
)

type AccountFacts struct {
	UserID         string
	AccountAgeDays int64
	Verified       bool
}

type ListingFacts struct {
	ListingID   string
	SellerID    string
	AskingPrice int64
}

type RiskAssessment struct {
	Score          float64
	Level          RiskLevel
	Recommendation RiskRecommendation
}

// FraudClient is an opaque, synchronous, side-effect-free risk lookup.
type FraudClient interface {
	Score(ctx context.Context, account *AccountFacts, listing *ListingFacts) (*RiskAssessment, error)
}
