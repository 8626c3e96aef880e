// Package pdf genera el comprobante de venta (cupom não fiscal) en A4 con Maroto v2.
//
// Layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre fantasía + CNPJ  │  N° venta + fecha          │
//	│  CLIENTE: nombre + CPF/CNPJ                                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | Unit. | Total                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Descuento / TOTAL                        │
//	│  PAGOS: forma + monto (+ vencimiento) / Vuelto                │
//	│  FOOTER: QR con el ID + leyenda                                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
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
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/pdv-api/internal/application/sales"
	"github.com/jhoicas/pdv-api/internal/domain/entity"
	"github.com/jhoicas/pdv-api/pkg/brdoc"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 102, Blue: 68}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 0, Blue: 0}
)

var paymentLabels = map[string]string{
	entity.PaymentCash:       "Dinheiro",
	entity.PaymentDebit:      "Cartão de débito",
	entity.PaymentCredit:     "Cartão de crédito",
	entity.PaymentPix:        "PIX",
	entity.PaymentBoleto:     "Boleto",
	entity.PaymentPromissory: "Promissória",
	entity.PaymentCrediario:  "Crediário",
}

// ── Renderer ─────────────────────────────────────────────────────────────────

var _ sales.ReceiptRenderer = (*ReceiptRenderer)(nil)

// ReceiptRenderer implementa sales.ReceiptRenderer usando Maroto v2.
type ReceiptRenderer struct {
	loc *time.Location
}

// NewReceiptRenderer construye el generador. Las fechas se imprimen en la zona loc (nil = UTC).
func NewReceiptRenderer(loc *time.Location) *ReceiptRenderer {
	if loc == nil {
		loc = time.UTC
	}
	return &ReceiptRenderer{loc: loc}
}

// Render genera el PDF y devuelve sus bytes.
func (g *ReceiptRenderer) Render(_ context.Context, data sales.ReceiptData) ([]byte, error) {
	if data.Sale == nil || data.Company == nil {
		return nil, fmt.Errorf("pdf: venta y empresa son obligatorias")
	}
	s, company := data.Sale, data.Company

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprovante "+s.SaleNumber, true).
		WithAuthor(displayName(company), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(s, company))
	if s.Status == entity.SaleCancelled {
		m.AddRows(cancelledRow(s))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	if data.Customer != nil {
		m.AddRows(customerRow(data.Customer))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(s.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(s))
	m.AddRows(g.paymentRows(s)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(s))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *ReceiptRenderer) headerRow(s *entity.Sale, company *entity.Company) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(displayName(company), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("CNPJ: "+brdoc.FormatCNPJ(company.CNPJ), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("COMPROVANTE DE VENDA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(s.SaleNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Data: "+s.CreatedAt.In(g.loc).Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func cancelledRow(s *entity.Sale) core.Row {
	msg := "VENDA CANCELADA"
	if s.CancelReason != "" {
		msg += " - " + s.CancelReason
	}
	return row.New(8).Add(col.New(12).Add(
		text.New(msg, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Center, Color: colorRed, Top: 1}),
	))
}

func customerRow(c *entity.Customer) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("%s   |   CPF/CNPJ: %s", c.Name, brdoc.FormatDocument(c.Document)), props.Text{
				Size: 9, Top: 6,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qtd.", 2, align.Center),
		h("Descrição", 6, align.Left),
		h("Unit.", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

func itemRows(items []entity.SaleItem) []core.Row {
	out := make([]core.Row, 0, len(items))
	for _, it := range items {
		out = append(out, row.New(7).Add(
			col.New(2).Add(text.New(formatQuantity(it.Quantity, it.Unit), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(it.Description, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(FormatBRL(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(FormatBRL(it.Total), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

func totalsRow(s *entity.Sale) core.Row {
	label := func(v string, size float64) core.Component {
		return text.New(v, props.Text{Style: fontstyle.Bold, Size: size, Align: align.Right, Right: 2})
	}
	value := func(v string, size float64) core.Component {
		return text.New(v, props.Text{Size: size, Align: align.Right, Right: 1})
	}
	return row.New(18).Add(
		col.New(6),
		col.New(3).Add(label("Subtotal:", 9), label("\nDesconto:", 9), label("\n\nTOTAL:", 10)),
		col.New(3).Add(value(FormatBRL(s.Subtotal), 9), value("\n"+FormatBRL(s.Discount), 9), value("\n\n"+FormatBRL(s.Total), 10)),
	)
}

func (g *ReceiptRenderer) paymentRows(s *entity.Sale) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("PAGAMENTOS", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		)),
	}
	for _, p := range s.Payments {
		desc := paymentLabel(p.Method)
		if p.Installments > 1 {
			desc += fmt.Sprintf(" (%dx)", p.Installments)
		}
		if p.Status == entity.PaymentPending && p.DueDate != nil {
			desc += "   venc. " + p.DueDate.In(g.loc).Format("02/01/2006")
		}
		rows = append(rows, row.New(5).Add(
			col.New(9).Add(text.New(desc, props.Text{Size: 8, Left: 2})),
			col.New(3).Add(text.New(FormatBRL(p.Amount), props.Text{Size: 8, Align: align.Right, Right: 1})),
		))
	}
	if s.Change.IsPositive() {
		rows = append(rows, row.New(6).Add(
			col.New(9).Add(text.New("Troco", props.Text{Style: fontstyle.Bold, Size: 9, Left: 2})),
			col.New(3).Add(text.New(FormatBRL(s.Change), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 1})),
		))
	}
	return rows
}

func footerRow(s *entity.Sale) core.Row {
	return row.New(36).Add(
		col.New(3).Add(code.NewQr(s.ID, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Documento sem valor fiscal.", props.Text{Style: fontstyle.Bold, Size: 9, Top: 6, Left: 3}),
			text.New("Obrigado pela preferência!", props.Text{Size: 8, Top: 14, Left: 3, Color: colorGray}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL formatea un monto en reales: 1234.5 -> "R$ 1.234,50".
func FormatBRL(v decimal.Decimal) string {
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Neg()
	}
	v = v.Round(2)
	reais := v.IntPart()
	cents := v.Sub(decimal.NewFromInt(reais)).Shift(2).IntPart()
	return fmt.Sprintf("%sR$ %s,%02d", sign, brPrinter.Sprintf("%d", reais), cents)
}

// formatQuantity KG con tres decimales; las demás unidades sin decimales cuando son enteras.
func formatQuantity(q decimal.Decimal, unit string) string {
	if unit == entity.UnitKG {
		return q.StringFixed(3) + " kg"
	}
	if q.Equal(q.Truncate(0)) {
		return q.StringFixed(0)
	}
	return q.String()
}

func paymentLabel(method string) string {
	if l, ok := paymentLabels[method]; ok {
		return l
	}
	return method
}

func displayName(c *entity.Company) string {
	if c.TradeName != "" {
		return c.TradeName
	}
	return c.LegalName
}
