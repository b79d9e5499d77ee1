// Package pdf genera la versión imprimible de un ticket de soporte.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Asunto + categoría   │  Estado + prioridad + fecha  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SOLICITANTE: Nombre / Email                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  MENSAJE                                                     │
//	│  RESPUESTA DEL ADMINISTRADOR (si existe)                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el id + fechas de creación/actualización     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

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

	"github.com/jhoicas/asseta-api/internal/application/ports"
	"github.com/jhoicas/asseta-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorSuccess = &props.Color{Red: 22, Green: 128, Blue: 61}
	colorWarning = &props.Color{Red: 180, Green: 83, Blue: 9}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// TicketPDFGenerator implementa ports.TicketRenderer usando Maroto v2.
type TicketPDFGenerator struct {
	author string
}

var _ ports.TicketRenderer = (*TicketPDFGenerator)(nil)

// NewTicketPDFGenerator construye el generador; author aparece en los metadatos del PDF.
func NewTicketPDFGenerator(author string) *TicketPDFGenerator {
	return &TicketPDFGenerator{author: author}
}

// RenderTicket genera el PDF y devuelve sus bytes.
func (g *TicketPDFGenerator) RenderTicket(t entity.SupportTicket) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Support Ticket "+t.ID, true).
		WithAuthor(g.author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(t))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(requesterRow(t))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(sectionRows("MENSAJE", t.Message)...)
	if strings.TrimSpace(t.AdminReply) != "" {
		m.AddRows(line.NewRow(3))
		m.AddRows(sectionRows("RESPUESTA DEL ADMINISTRADOR", t.AdminReply)...)
	}
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(t))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: asunto y categoría (izq), estado, prioridad y fecha (der).
func headerRow(t entity.SupportTicket) core.Row {
	return row.New(20).Add(
		col.New(8).Add(
			text.New(nonEmpty(t.Subject, "(sin asunto)"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Categoría: "+nonEmpty(t.Category, entity.DefaultTicketCategory), props.Text{
				Size: 9, Top: 10, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New(strings.ToUpper(t.Status), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: statusColor(t.Status), Top: 1,
			}),
			text.New("Prioridad: "+nonEmpty(t.Priority, entity.DefaultTicketPriority), props.Text{
				Size: 8, Align: align.Right, Top: 8,
			}),
			text.New("Fecha: "+formatDate(t), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// requesterRow: datos de quien abrió el ticket.
func requesterRow(t entity.SupportTicket) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("SOLICITANTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(t.Name, "-"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New("Email: "+nonEmpty(t.Email, "-"), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

// sectionRows: título y un renglón por párrafo del cuerpo.
func sectionRows(title, body string) []core.Row {
	rows := []core.Row{
		row.New(7).Add(col.New(12).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
		)),
	}
	for _, p := range paragraphs(body) {
		rows = append(rows, row.New(rowHeight(p)).Add(col.New(12).Add(
			text.New(p, props.Text{Size: 9, Top: 1, Left: 2}),
		)))
	}
	return rows
}

// footerRow: QR con el id del ticket y las fechas.
func footerRow(t entity.SupportTicket) core.Row {
	info := fmt.Sprintf("Ticket: %s\nCreado: %s\nActualizado: %s",
		nonEmpty(t.ID, "-"),
		t.CreatedAt.UTC().Format("2006-01-02 15:04 MST"),
		t.UpdatedAt.UTC().Format("2006-01-02 15:04 MST"),
	)
	r := row.New(30)
	if t.ID != "" {
		r.Add(col.New(3).Add(code.NewQr(t.ID, props.Rect{Percent: 90, Center: true})))
	} else {
		r.Add(col.New(3))
	}
	r.Add(col.New(9).Add(text.New(info, props.Text{Size: 8, Top: 4, Left: 3, Color: colorGray})))
	return r
}

// ── helpers ───────────────────────────────────────────────────────────────────

func statusColor(status string) *props.Color {
	switch status {
	case entity.TicketResolved:
		return colorSuccess
	case entity.TicketInProgress:
		return colorWarning
	default:
		return colorPrimary
	}
}

func formatDate(t entity.SupportTicket) string {
	if t.CreatedAt.IsZero() {
		return "-"
	}
	return t.CreatedAt.UTC().Format("02/01/2006")
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

// paragraphs separa el cuerpo por líneas, descartando las vacías.
func paragraphs(body string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		out = append(out, "-")
	}
	return out
}

// rowHeight estima la altura para que maroto no recorte párrafos largos (~110 caracteres por línea).
func rowHeight(p string) float64 {
	lines := len([]rune(p))/110 + 1
	return float64(lines)*4.5 + 2
}
