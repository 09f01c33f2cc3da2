package fees

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name    string
		price   int64
		bps     int64
		minFee  int64
		wantFee int64
		wantNet int64
	}{
		{"ten percent", 150000, 1000, 500, 15000, 135000},
		{"rounds half up", 10005, 1000, 500, 1001, 9004},
		{"rounds down below half", 10004, 1000, 500, 1000, 9004},
		{"minimum floor applies", 2000, 1000, 500, 500, 1500},
		{"floor on tiny price", 100, 1000, 500, 500, -400},
		{"zero rate still floors", 150000, 0, 500, 500, 149500},
		{"raised floor overrides rate", 20000, 1000, 2500, 2500, 17500},
		{"zero floor disables it", 2000, 1000, 0, 200, 1800},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.price, tt.bps, tt.minFee)
			assert.Equal(t, tt.wantFee, got.PlatformFee)
			assert.Equal(t, tt.wantNet, got.SellerNet)
			assert.Equal(t, tt.bps, got.PlatformFeeBps)
		})
	}
}

// The invariant the escrow engine relies on: the fee and the net always
// recompose the agreed price exactly.
func TestComputeRecomposesPrice(t *testing.T) {
	prices := []int64{1, 499, 500, 501, 9999, 10000, 123456, 150000, 99999999}
	rates := []int64{0, 1, 250, 500, 1000, 1250, 9999}
	for _, price := range prices {
		for _, bps := range rates {
			b := Compute(price, bps, MinimumFeeFloor)
			assert.Equal(t, price, b.SellerNet+b.PlatformFee,
				"price=%d bps=%d", price, bps)
			assert.GreaterOrEqual(t, b.PlatformFee, int64(MinimumFeeFloor))
		}
	}
}

func TestComputeBuyer(t *testing.T) {
	got := ComputeBuyer(150000, 500)
	assert.Equal(t, int64(7500), got.BuyerFee)
	assert.Equal(t, int64(157500), got.BuyerTotal)

	free := ComputeBuyer(150000, 0)
	assert.Equal(t, int64(0), free.BuyerFee)
	assert.Equal(t, int64(150000), free.BuyerTotal)

	odd := ComputeBuyer(10005, 500)
	assert.Equal(t, int64(500), odd.BuyerFee) // 500.25 rounds down
	assert.Equal(t, int64(10505), odd.BuyerTotal)
}
