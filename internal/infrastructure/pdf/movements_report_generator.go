// Package pdf implementa la generación del reporte de historial de
// movimientos de inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: StockTrack  │  Cuenta + Fecha de generación        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Producto | SKU | Ubicación | Tipo | Cant.    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Entradas / Salidas                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/jhoicas/StockTrack-api/internal/application/report"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
	colorGreen   = &props.Color{Red: 20, Green: 110, Blue: 50}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ report.MovementsPDFGenerator = (*MarotoReportGenerator)(nil)

// MarotoReportGenerator implementa report.MovementsPDFGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateMovementsPDF genera el PDF del historial y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateMovementsPDF(_ context.Context, rep *report.MovementsReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Historial de Movimientos de Inventario", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(rep))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableRows(rep.Rows) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(rep))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y cuenta + fecha de generación (der).
func headerRow(rep *report.MovementsReport) core.Row {
	fecha := rep.GeneratedAt.Format("02/01/2006 15:04")
	return row.New(16).Add(
		col.New(7).Add(
			text.New("StockTrack", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Historial de movimientos de inventario", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(rep.UserEmail, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2,
			}),
			text.New("Generado: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de movimientos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Producto", 3, align.Left),
		h("SKU", 2, align.Left),
		h("Ubicación", 2, align.Left),
		h("Tipo", 2, align.Center),
		h("Cant.", 1, align.Right),
	)
}

// tableRows: una fila por movimiento, cantidad con signo y color.
func tableRows(rows []report.ReportRow) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		qtyColor := colorGreen
		if r.Quantity < 0 {
			qtyColor = colorRed
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(
				r.Date.Format("02/01/2006 15:04"),
				props.Text{Size: 7.5, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				r.ProductName,
				props.Text{Size: 7.5, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				r.SKU,
				props.Text{Size: 7.5, Align: align.Left, Top: 1, Left: 1, Color: colorGray},
			)),
			col.New(2).Add(text.New(
				r.LocationName,
				props.Text{Size: 7.5, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				movementLabel(r.Type),
				props.Text{Size: 7.5, Align: align.Center, Top: 1},
			)),
			col.New(1).Add(text.New(
				signedQty(r.Quantity),
				props.Text{Size: 7.5, Align: align.Right, Top: 1, Right: 1, Color: qtyColor},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales de entradas y salidas.
func totalsRow(rep *report.MovementsReport) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	return row.New(14).Add(
		col.New(6),
		col.New(3).Add(
			label("Total entradas:"),
			label("Total salidas:"),
		),
		col.New(3).Add(
			text.New("+"+strconv.FormatInt(rep.TotalIn, 10), props.Text{
				Size: 9, Align: align.Right, Right: 1, Color: colorGreen,
			}),
			text.New("-"+strconv.FormatInt(rep.TotalOut, 10), props.Text{
				Size: 9, Align: align.Right, Right: 1, Color: colorRed,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// movementLabel etiqueta legible de cada tipo de movimiento.
func movementLabel(movementType string) string {
	switch movementType {
	case "in":
		return "Entrada"
	case "out":
		return "Salida"
	case "manual_in":
		return "Ajuste +"
	case "manual_out":
		return "Ajuste -"
	case "ecommerce_out":
		return "Venta online"
	default:
		return movementType
	}
}

func signedQty(q int64) string {
	if q > 0 {
		return "+" + strconv.FormatInt(q, 10)
	}
	return strconv.FormatInt(q, 10)
}
