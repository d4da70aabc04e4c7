// Package pdf dibuja el certificado de inversión de una suscripción activada.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del deal      │  N° de serie + Fecha         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TITULAR: Nombre + email del inversionista                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Concepto | Valor                                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el serial + leyenda                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/dealroom-api/internal/application/certificate"
	"github.com/jhoicas/dealroom-api/internal/domain/entity"
	"github.com/jhoicas/dealroom-api/pkg/money"
)

var _ certificate.Generator = (*MarotoCertificateGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoCertificateGenerator implementa certificate.Generator usando Maroto v2.
type MarotoCertificateGenerator struct {
	issuer string
}

// NewMarotoCertificateGenerator construye el generador. issuer aparece como autor del documento.
func NewMarotoCertificateGenerator(issuer string) *MarotoCertificateGenerator {
	return &MarotoCertificateGenerator{issuer: nonEmpty(issuer, "Dealroom")}
}

// Render genera el PDF y devuelve sus bytes.
func (g *MarotoCertificateGenerator) Render(req entity.CertificateRequest, serial string, issuedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Certificado de inversión "+serial, true).
		WithAuthor(g.issuer, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(req, serial, issuedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(holderRow(req))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range detailRows(req) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(serial))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar certificado: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(req entity.CertificateRequest, serial string, issuedAt time.Time) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New(nonEmpty(req.DealName, req.DealID), props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New("Vehículo: "+nonEmpty(req.VehicleID, "—"), props.Text{
				Size: 8, Top: 10, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("CERTIFICADO DE INVERSIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(serial, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
			text.New("Emitido: "+issuedAt.UTC().Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func holderRow(req entity.CertificateRequest) core.Row {
	name, email := req.InvestorID, "—"
	if req.Profile != nil {
		name = nonEmpty(req.Profile.DisplayName, name)
		email = nonEmpty(req.Profile.Email, email)
	}
	return row.New(16).Add(
		col.New(12).Add(
			text.New("TITULAR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(name, props.Text{Style: fontstyle.Bold, Size: 11, Top: 6}),
			text.New("Email: "+email, props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Concepto", 7, align.Left),
		h("Valor", 5, align.Right),
	)
}

// detailRows una fila por dato económico de la suscripción.
func detailRows(req entity.CertificateRequest) []core.Row {
	price := "—"
	if req.PricePerShare != nil {
		price = money.Format(*req.PricePerShare, req.Currency)
	}
	items := [][2]string{
		{"Suscripción", req.SubscriptionID},
		{"Compromiso", money.Format(req.Commitment, req.Currency)},
		{"Monto fondeado", money.Format(req.FundedAmount, req.Currency)},
		{"Unidades", req.Shares.StringFixed(4)},
		{"Precio por unidad", price},
	}
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(7).Add(text.New(it[0], props.Text{Size: 9, Top: 1, Left: 1})),
			col.New(5).Add(text.New(it[1], props.Text{Size: 9, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func footerRow(serial string) core.Row {
	return row.New(40).Add(
		col.New(4).Add(code.NewQr(serial, props.Rect{Percent: 95, Center: true})),
		col.New(8).Add(
			text.New("El código QR contiene el número de serie\nde este certificado.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Este documento acredita la participación del titular en el vehículo indicado "+
				"a la fecha de emisión.", props.Text{
				Size: 8, Top: 18, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
