// Package pdf genera la ficha de venta en PDF (A4) con Maroto v2.
//
// Layout:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Venta #N + estado   │  Fecha de registro           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ASESOR: nombre / modalidad / turno                         │
//	│  CLIENTE: nombre + DNI + contacto                           │
//	│  PRODUCTO: descripción + monto + observaciones              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BACK OFFICE: SEC / SOT / fechas de instalación             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  HISTORIAL: notificaciones generadas + QR con el ID         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
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

	"github.com/jhoicas/Ventas-api/internal/domain/entity"
	"github.com/jhoicas/Ventas-api/internal/domain/sale"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// SaleSheetGenerator implementa ventas.SaleSheetGenerator usando Maroto v2.
type SaleSheetGenerator struct{}

// NewSaleSheetGenerator construye el generador.
func NewSaleSheetGenerator() *SaleSheetGenerator { return &SaleSheetGenerator{} }

// GenerateSaleSheet genera la ficha y devuelve sus bytes.
func (g *SaleSheetGenerator) GenerateSaleSheet(
	_ context.Context,
	s *entity.Sale,
	history []*entity.Notification,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Venta #%d", s.Number), true).
		WithAuthor(s.AdvisorName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(section("ASESOR", []string{
		s.AdvisorName,
		fmt.Sprintf("Modalidad: %s   |   Turno: %s", s.Modality, s.Shift),
	}))
	m.AddRows(section("CLIENTE", []string{
		s.ClientName,
		fmt.Sprintf("DNI: %s   |   Tel: %s   |   Género: %s", s.ClientDNI, s.ClientPhone, s.ClientGender),
		fmt.Sprintf("Dirección: %s   |   Email: %s", nonEmpty(s.ClientAddress, "-"), nonEmpty(s.ClientEmail, "-")),
	}))
	m.AddRows(section("PRODUCTO / SERVICIO", []string{
		s.ProductService,
		"Monto: " + FormatAmount(s.Amount),
		"Observaciones: " + nonEmpty(oneLine(s.Notes), "-"),
	}))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(section("BACK OFFICE", []string{
		fmt.Sprintf("SEC: %s   |   SOT: %s", nonEmpty(s.SEC, "-"), nonEmpty(s.SOT, "-")),
		fmt.Sprintf("Instalación programada: %s   |   Instalación real: %s",
			formatDate(s.ScheduledInstallDate), formatDate(s.ActualInstallDate)),
	}))
	if s.Status == entity.SaleStatusRechazada && s.RejectionReason != "" {
		m.AddRows(section("MOTIVO DE RECHAZO", []string{oneLine(s.RejectionReason)}))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range historyRows(s, history) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar ficha: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: número y estado (izq), fecha de registro (der).
func headerRow(s *entity.Sale) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(fmt.Sprintf("VENTA #%d", s.Number), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Estado: "+sale.StatusLabel(s.Status), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FICHA DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Registrada: "+s.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// section: título en color primario y una línea de texto por valor.
func section(title string, lines []string) core.Row {
	comps := []core.Component{
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	}
	for i, l := range lines {
		comps = append(comps, text.New(l, props.Text{Size: 8, Top: float64(6 + 5*i)}))
	}
	return row.New(float64(8 + 5*len(lines))).Add(col.New(12).Add(comps...))
}

// historyRows: notificaciones generadas por la venta y QR con su ID.
func historyRows(s *entity.Sale, history []*entity.Notification) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("HISTORIAL DE NOTIFICACIONES", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}
	if len(history) == 0 {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Sin notificaciones.", props.Text{Size: 7, Color: colorGray, Top: 1}),
		)))
	}
	for _, n := range history {
		state := "pendiente"
		if n.Read {
			state = "leída"
		}
		rows = append(rows, row.New(5).Add(
			col.New(2).Add(text.New(n.CreatedAt.Format("02/01 15:04"), props.Text{Size: 7, Color: colorGray, Top: 1})),
			col.New(8).Add(text.New(n.Message, props.Text{Size: 7, Top: 1})),
			col.New(2).Add(text.New(state, props.Text{Size: 7, Align: align.Right, Color: colorGray, Top: 1})),
		))
	}

	rows = append(rows, row.New(3), row.New(35).Add(
		col.New(3).Add(code.NewQr(s.ID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("ID de la venta:", props.Text{Style: fontstyle.Bold, Size: 7, Top: 4, Left: 3}),
			text.New(s.ID, props.Text{Size: 7, Top: 9, Left: 3, Color: colorGray}),
		),
	))
	return rows
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("02/01/2006")
}

// FormatAmount monto en soles con separador de miles. Ej: 1234.5 → "S/ 1,234.50".
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return "S/ " + sign + string(buf) + "." + frac
}
