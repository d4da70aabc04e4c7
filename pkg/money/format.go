// Package money formatea montos para mensajes dirigidos a usuarios (notificaciones, certificados).
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Format devuelve el monto con separador de miles y dos decimales precedido del código ISO.
// Ej: Format(1500, "usd") → "USD 1,500.00". Un código inválido se usa tal cual (en mayúsculas).
func Format(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if unit, err := currency.ParseISO(code); err == nil {
		code = unit.String()
	}
	f, _ := amount.Round(2).Float64()
	num := printer.Sprintf("%.2f", f)
	if code == "" {
		return num
	}
	return code + " " + num
}
