package closing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/dealroom-api/internal/domain/closing"
	"github.com/jhoicas/dealroom-api/internal/domain/entity"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// 100 acciones, precio 10, costo 8 → spread 2 por acción, 200 total.
func TestSpread_PrecioYCostoConocidos(t *testing.T) {
	perShare, total, ok := closing.Spread(dec("100"), dec("10"), dec("8"))

	assert.True(t, ok)
	assert.True(t, perShare.Equal(decimal.NewFromInt(2)), "spread por acción = 2, got %s", perShare)
	assert.True(t, total.Equal(decimal.NewFromInt(200)), "spread total = 200, got %s", total)
}

func TestSpread_FaltaUnDato(t *testing.T) {
	_, _, ok := closing.Spread(dec("100"), dec("10"), nil)
	assert.False(t, ok)

	_, _, ok = closing.Spread(nil, dec("10"), dec("8"))
	assert.False(t, ok)
}

func TestDeriveUnits(t *testing.T) {
	cases := []struct {
		name string
		sub  entity.Subscription
		want string
	}{
		{"acciones explícitas", entity.Subscription{NumShares: dec("100"), PricePerShare: dec("10"), FundedAmount: decimal.NewFromInt(5000)}, "100"},
		{"monto / precio", entity.Subscription{PricePerShare: dec("25"), FundedAmount: decimal.NewFromInt(1000)}, "40"},
		{"monto / costo", entity.Subscription{CostPerShare: dec("20"), FundedAmount: decimal.NewFromInt(1000)}, "50"},
		{"acciones en cero usa precio", entity.Subscription{NumShares: dec("0"), PricePerShare: dec("10"), FundedAmount: decimal.NewFromInt(1000)}, "100"},
		{"sin datos", entity.Subscription{FundedAmount: decimal.NewFromInt(1000)}, "0"},
		{"sin fondeo", entity.Subscription{PricePerShare: dec("10")}, "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := closing.DeriveUnits(&tc.sub)
			assert.True(t, got.Equal(decimal.RequireFromString(tc.want)), "want %s got %s", tc.want, got)
		})
	}
}

// 100000 × 150 bps = 1500.
func TestCommissionAmount_BaseEsMontoFondeado(t *testing.T) {
	got := closing.CommissionAmount(decimal.NewFromInt(100000), 150)
	assert.True(t, got.Equal(decimal.NewFromInt(1500)), "got %s", got)
}

func TestCommissionAmount_RedondeaACentavos(t *testing.T) {
	got := closing.CommissionAmount(decimal.RequireFromString("333.33"), 125)
	assert.Equal(t, "4.17", got.StringFixed(2))
}

func TestCommissionAmount_TasaCeroOMontoCero(t *testing.T) {
	assert.True(t, closing.CommissionAmount(decimal.NewFromInt(1000), 0).IsZero())
	assert.True(t, closing.CommissionAmount(decimal.Zero, 150).IsZero())
}

func TestIsDealReadyForClose(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)

	assert.True(t, closing.IsDealReadyForClose(&entity.Deal{CloseAt: &today}, now))
	assert.False(t, closing.IsDealReadyForClose(&entity.Deal{CloseAt: &tomorrow}, now))
	assert.False(t, closing.IsDealReadyForClose(&entity.Deal{}, now), "sin fecha de cierre")
	assert.False(t, closing.IsDealReadyForClose(&entity.Deal{CloseAt: &today, ClosedProcessedAt: &now}, now), "ya procesado")
	assert.False(t, closing.IsDealReadyForClose(nil, now))
}

func TestIsTermsheetReadyForClose(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)

	assert.True(t, closing.IsTermsheetReadyForClose(&entity.Termsheet{CompletionDate: &yesterday}, now))
	assert.False(t, closing.IsTermsheetReadyForClose(&entity.Termsheet{CompletionDate: &yesterday, ClosedProcessedAt: &now}, now))
	assert.False(t, closing.IsTermsheetReadyForClose(&entity.Termsheet{}, now))
}
