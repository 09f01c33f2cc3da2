// Package fees computes platform fees for an agreed sale price. All amounts
// are integer centavos and all rates are basis points, so intermediate
// results are exact and never accumulate floating-point error.
package fees

// Default policy values; callers normally pass the configured ones.
const (
	DefaultSellerFeeBps = 1000 // 10%
	DefaultBuyerFeeBps  = 0
	MinimumFeeFloor     = 500 // R$ 5,00
)

type Breakdown struct {
	PlatformFee    int64
	PlatformFeeBps int64
	SellerNet      int64
}

type BuyerBreakdown struct {
	BuyerFee   int64
	BuyerTotal int64
}

// roundBps multiplies a centavo amount by a basis-point rate, rounding
// half-up to the nearest centavo.
func roundBps(amount, bps int64) int64 {
	return (amount*bps + 5000) / 10000
}

// Compute turns an agreed price into the platform fee and the seller's net
// amount. The fee never drops below minimumFee, which comes from the
// configured fee policy. Callers must pre-validate agreedPrice > 0.
func Compute(agreedPrice, sellerFeeBps, minimumFee int64) Breakdown {
	fee := roundBps(agreedPrice, sellerFeeBps)
	if fee < minimumFee {
		fee = minimumFee
	}
	return Breakdown{
		PlatformFee:    fee,
		PlatformFeeBps: sellerFeeBps,
		SellerNet:      agreedPrice - fee,
	}
}

// SplitBuyer computes the buyer's share of an agreed price under a
// split policy expressed in basis points.
func SplitBuyer(agreedPrice, buyerShareBps int64) int64 {
	return roundBps(agreedPrice, buyerShareBps)
}

// ComputeBuyer computes the buyer-side surcharge on top of the agreed price.
func ComputeBuyer(agreedPrice, buyerFeeBps int64) BuyerBreakdown {
	fee := roundBps(agreedPrice, buyerFeeBps)
	return BuyerBreakdown{
		BuyerFee:   fee,
		BuyerTotal: agreedPrice + fee,
	}
}
