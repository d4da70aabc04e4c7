package closing

import "github.com/shopspring/decimal"

// BasisPointsDivisor 1 bps = 1/10000.
const BasisPointsDivisor = 10000

var bpsDivisor = decimal.NewFromInt(BasisPointsDivisor)

// CommissionAmount = montoFondeado × rateBps ÷ 10000, redondeado a centavos.
// La base es siempre el monto fondeado: nunca el compromiso ni comisiones de gestión.
func CommissionAmount(fundedAmount decimal.Decimal, rateBps int) decimal.Decimal {
	if rateBps <= 0 || !fundedAmount.IsPositive() {
		return decimal.Zero
	}
	return fundedAmount.Mul(decimal.NewFromInt(int64(rateBps))).Div(bpsDivisor).Round(2)
}
