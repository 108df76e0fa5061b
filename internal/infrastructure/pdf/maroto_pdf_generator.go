// Package pdf implementa el reporte imprimible de un NCR con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: NCR-#### + Severidad  │  Estado + Fecha reporte     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PROVEEDOR: Nombre + contacto                                │
//	│  ORDEN DE COMPRA: N° PO + valor + moneda                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DESCRIPCIÓN DE LA NO CONFORMIDAD                            │
//	│  SLA: vencimiento de resolución / ¿vencido?                  │
//	│  CIERRE: quién, cuándo, nota crédito (si aplica)             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  HILO: comentarios visibles al proveedor (más recientes)     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

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

	appncr "github.com/tu-usuario/procura-pro/internal/application/ncr"
	"github.com/tu-usuario/procura-pro/internal/domain/entity"
)

var _ appncr.NCRPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorCritical = &props.Color{Red: 180, Green: 30, Blue: 30}
	colorMajor    = &props.Color{Red: 200, Green: 120, Blue: 0}
	colorMinor    = &props.Color{Red: 60, Green: 130, Blue: 60}
)

// maxCommentsInPDF limita el hilo impreso a los comentarios más recientes.
const maxCommentsInPDF = 15

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ncr.NCRPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateNCRPDF genera el reporte y devuelve sus bytes. Los comentarios
// recibidos ya vienen filtrados (solo los visibles al proveedor).
func (g *MarotoPDFGenerator) GenerateNCRPDF(
	_ context.Context,
	n *entity.NCR,
	supplier *entity.Supplier,
	po *entity.PurchaseOrder,
	comments []*entity.Comment,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de No Conformidad "+n.NCRNumber, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(n))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(supplierRow(supplier))
	m.AddRows(purchaseOrderRow(po))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(descriptionRows(n)...)
	m.AddRows(slaRow(n))
	if n.Status == entity.NCRStatusClosed {
		m.AddRows(closureRows(n)...)
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(threadRows(comments)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: número de NCR + severidad (izq) y estado + fecha de reporte (der).
func headerRow(n *entity.NCR) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("REPORTE DE NO CONFORMIDAD", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(n.NCRNumber+" — "+n.Title, props.Text{
				Style: fontstyle.Bold, Size: 12, Top: 6,
			}),
			text.New("Severidad: "+n.Severity+"   |   Tipo: "+n.IssueType, props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 13, Color: severityColor(n.Severity),
			}),
		),
		col.New(5).Add(
			text.New("Estado: "+n.Status, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 2, Color: colorPrimary,
			}),
			text.New("Reportado: "+n.ReportedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// supplierRow: datos del proveedor responsable.
func supplierRow(s *entity.Supplier) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("PROVEEDOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   Contacto: %s   |   Email: %s",
				s.Name,
				nonEmpty(s.ContactName, "—"),
				nonEmpty(s.ContactEmail, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// purchaseOrderRow: orden de compra afectada.
func purchaseOrderRow(po *entity.PurchaseOrder) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("ORDEN DE COMPRA AFECTADA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   Valor: %s %s   |   Estado: %s",
				po.PONumber,
				po.TotalValue.StringFixed(2), po.Currency,
				po.Status,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// descriptionRows: descripción libre de la no conformidad.
func descriptionRows(n *entity.NCR) []core.Row {
	return []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("DESCRIPCIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(16).Add(col.New(12).Add(
			text.New(n.Description, props.Text{Size: 8.5, Top: 1}),
		)),
	}
}

// slaRow: vencimiento de resolución, marcando si ya está vencido.
func slaRow(n *entity.NCR) core.Row {
	slaText := "Resolución antes de: " + n.SLADueAt.Format("02/01/2006 15:04")
	slaColor := colorGray
	if n.IsOpen() && time.Now().After(n.SLADueAt) {
		slaText += "   (VENCIDO)"
		slaColor = colorCritical
	}
	creditNote := "No requiere nota crédito"
	if n.RequiresCreditNote {
		creditNote = "REQUIERE NOTA CRÉDITO (hitos pagados al momento del reporte)"
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("SLA — "+slaText, props.Text{Size: 8, Top: 1, Color: slaColor}),
			text.New(creditNote, props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// closureRows: bloque de cierre (solo para NCR cerrados).
func closureRows(n *entity.NCR) []core.Row {
	closedAt := "—"
	if n.ClosedAt != nil {
		closedAt = n.ClosedAt.Format("02/01/2006 15:04")
	}
	reason := "—"
	if n.ClosedReason != nil {
		reason = *n.ClosedReason
	}
	evidence := "sin evidencia adjunta"
	if n.ProofOfFixDocID != nil {
		evidence = "evidencia de corrección adjunta"
	}
	return []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("CIERRE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorMinor, Top: 1,
			}),
		)),
		row.New(10).Add(col.New(12).Add(
			text.New(fmt.Sprintf("Cerrado: %s   |   Motivo: %s   |   %s", closedAt, reason, evidence),
				props.Text{Size: 8, Top: 1, Color: colorGray}),
		)),
	}
}

// threadRows: el hilo visible al proveedor, del más reciente al más antiguo.
func threadRows(comments []*entity.Comment) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("HILO DE COMUNICACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}
	if len(comments) == 0 {
		rows = append(rows, row.New(6).Add(col.New(12).Add(
			text.New("Sin comentarios.", props.Text{Size: 8, Color: colorGray, Top: 1}),
		)))
		return rows
	}
	shown := comments
	if len(shown) > maxCommentsInPDF {
		shown = shown[:maxCommentsInPDF]
	}
	for _, c := range shown {
		meta := fmt.Sprintf("[%s] %s", c.AuthorRole, c.CreatedAt.Format("02/01/2006 15:04"))
		body := c.Content
		if body == "" {
			body = "(adjuntos)"
		}
		if len(c.AttachmentURLs) > 0 {
			meta += fmt.Sprintf("   |   %d adjunto(s)", len(c.AttachmentURLs))
		}
		if c.VoiceNoteURL != nil {
			meta += "   |   nota de voz"
		}
		rows = append(rows,
			row.New(5).Add(col.New(12).Add(
				text.New(meta, props.Text{Style: fontstyle.Bold, Size: 7.5, Top: 1, Color: colorGray}),
			)),
			row.New(8).Add(col.New(12).Add(
				text.New(body, props.Text{Size: 8, Top: 0.5, Left: 2}),
			)),
		)
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func severityColor(severity string) *props.Color {
	switch severity {
	case entity.SeverityCritical:
		return colorCritical
	case entity.SeverityMajor:
		return colorMajor
	default:
		return colorMinor
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
