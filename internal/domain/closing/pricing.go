package closing

import (
	"github.com/jhoicas/dealroom-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Spread calcula el spread de precio de una suscripción (servicio de dominio).
// SpreadPorAcción = PrecioPorAcción − CostoPorAcción; SpreadTotal = SpreadPorAcción × Acciones.
// Devuelve ok=false si falta alguno de los tres datos.
func Spread(shares, pricePerShare, costPerShare *decimal.Decimal) (perShare, total decimal.Decimal, ok bool) {
	if shares == nil || pricePerShare == nil || costPerShare == nil {
		return decimal.Zero, decimal.Zero, false
	}
	perShare = pricePerShare.Sub(*costPerShare)
	return perShare, perShare.Mul(*shares), true
}

// DeriveUnits obtiene las unidades de la posición: acciones explícitas si las hay,
// si no el monto fondeado dividido por el precio (o el costo) por acción.
// Devuelve cero si no se puede derivar.
func DeriveUnits(sub *entity.Subscription) decimal.Decimal {
	if sub.NumShares != nil && sub.NumShares.IsPositive() {
		return *sub.NumShares
	}
	if !sub.FundedAmount.IsPositive() {
		return decimal.Zero
	}
	if sub.PricePerShare != nil && sub.PricePerShare.IsPositive() {
		return sub.FundedAmount.Div(*sub.PricePerShare)
	}
	if sub.CostPerShare != nil && sub.CostPerShare.IsPositive() {
		return sub.FundedAmount.Div(*sub.CostPerShare)
	}
	return decimal.Zero
}
