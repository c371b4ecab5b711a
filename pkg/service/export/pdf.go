package export

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
)

const (
	fontFamily  = "Helvetica"
	lineHeight  = 6.0
	tableHeight = 7.0
)

// Input is everything printed in the PDF report
type Input struct {
	UnitLabel   string
	Risks       []*model.Risk
	Documents   []*model.Document
	Summary     *model.Summary
	Analysis    string
	GeneratedAt time.Time
}

type column struct {
	title string
	width float64
	align string
}

var riskColumns = []column{
	{title: "Código", width: 22, align: "L"},
	{title: "Risco", width: 62, align: "L"},
	{title: "Unidade", width: 26, align: "L"},
	{title: "Prob.", width: 14, align: "C"},
	{title: "Impacto", width: 40, align: "L"},
	{title: "Nível", width: 16, align: "C"},
}

var documentColumns = []column{
	{title: "Título", width: 72, align: "L"},
	{title: "Tipo", width: 22, align: "L"},
	{title: "Unidade", width: 26, align: "L"},
	{title: "Status", width: 28, align: "L"},
	{title: "Atualizado", width: 26, align: "C"},
}

// RenderPDF writes the report as an A4 PDF to w
func RenderPDF(w io.Writer, in Input) error {
	if in.Summary == nil {
		in.Summary = model.Aggregate(in.Risks, in.Documents)
	}
	if in.GeneratedAt.IsZero() {
		in.GeneratedAt = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	r := &renderer{pdf: pdf, tr: tr}

	pdf.SetTitle("Painel de Riscos e Normativos", true)
	pdf.SetCreator("themis", true)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Página %d/{nb}", pdf.PageNo())), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	r.header(in)
	r.kpis(in.Summary)
	r.riskTable(in.Risks)
	r.documentTable(in.Documents)
	if in.Analysis != "" {
		r.analysis(in.Analysis)
	}

	if err := pdf.Output(w); err != nil {
		return goerr.Wrap(err, "failed to write PDF")
	}
	return nil
}

type renderer struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (r *renderer) header(in Input) {
	r.pdf.SetFont(fontFamily, "B", 16)
	r.pdf.CellFormat(0, 10, r.tr("Painel de Riscos e Normativos"), "", 1, "L", false, 0, "")

	r.pdf.SetFont(fontFamily, "", 10)
	generated := model.FormatDateBR(in.GeneratedAt.Format(model.DateLayout))
	r.pdf.CellFormat(0, lineHeight, r.tr(fmt.Sprintf("%s | Gerado em %s", in.UnitLabel, generated)), "", 1, "L", false, 0, "")
	r.pdf.Ln(4)
}

func (r *renderer) kpis(s *model.Summary) {
	r.section("Indicadores")
	r.pdf.SetFont(fontFamily, "", 10)
	line := fmt.Sprintf("Riscos Altos/Críticos: %d | Políticas Ativas: %d | Normas: %d | Manuais: %d",
		s.CriticalOrAbove, s.ActivePolicies, s.Norms, s.Manuals)
	r.pdf.CellFormat(0, lineHeight, r.tr(line), "", 1, "L", false, 0, "")

	for _, c := range s.RisksByCategory {
		r.pdf.CellFormat(0, lineHeight, r.tr(fmt.Sprintf("  %s: %d", c.Category, c.Count)), "", 1, "L", false, 0, "")
	}
	r.pdf.Ln(4)
}

func (r *renderer) riskTable(risks []*model.Risk) {
	r.section("Matriz de Riscos")
	r.tableHeader(riskColumns)

	r.pdf.SetFont(fontFamily, "", 9)
	for _, risk := range risks {
		level := risk.Classification()
		impact := fmt.Sprintf("%.1f %s", risk.Impact, risk.ImpactLabel())
		values := []string{
			risk.Code,
			risk.Title,
			risk.Unit.String(),
			fmt.Sprintf("%d", risk.Probability),
			impact,
		}
		for i, v := range values {
			col := riskColumns[i]
			r.pdf.CellFormat(col.width, tableHeight, r.fit(v, col.width), "1", 0, col.align, false, 0, "")
		}

		red, green, blue := model.MatrixColorOf(risk.Probability, risk.Impact).RGB()
		r.pdf.SetFillColor(red, green, blue)
		last := riskColumns[len(riskColumns)-1]
		r.pdf.CellFormat(last.width, tableHeight, level.Code.String(), "1", 1, last.align, true, 0, "")
	}
	r.pdf.Ln(4)
}

func (r *renderer) documentTable(docs []*model.Document) {
	r.section("Documentos Normativos")
	r.tableHeader(documentColumns)

	r.pdf.SetFont(fontFamily, "", 9)
	for _, d := range docs {
		values := []string{
			d.Title,
			d.Type.String(),
			d.Unit.String(),
			d.Status.Label(),
			model.FormatDateBR(d.LastUpdated),
		}
		for i, v := range values {
			col := documentColumns[i]
			ln := 0
			if i == len(values)-1 {
				ln = 1
			}
			r.pdf.CellFormat(col.width, tableHeight, r.fit(v, col.width), "1", ln, col.align, false, 0, "")
		}
	}
	r.pdf.Ln(4)
}

func (r *renderer) analysis(text string) {
	r.section("Análise Estratégica")

	for _, b := range model.ParseReport(text) {
		switch b.Kind {
		case model.BlockHeading:
			r.pdf.Ln(2)
			r.pdf.SetFont(fontFamily, "B", 12)
			r.pdf.MultiCell(0, lineHeight, r.tr(b.Text), "", "L", false)
		case model.BlockBold:
			r.pdf.SetFont(fontFamily, "B", 10)
			r.pdf.MultiCell(0, lineHeight, r.tr(b.Text), "", "L", false)
		case model.BlockListItem:
			r.pdf.SetFont(fontFamily, "", 10)
			r.pdf.SetX(r.pdf.GetX() + 4)
			r.pdf.MultiCell(0, lineHeight, r.tr("•"+b.Text), "", "L", false)
		default:
			if b.Text == "" {
				r.pdf.Ln(2)
				continue
			}
			r.pdf.SetFont(fontFamily, "", 10)
			r.pdf.MultiCell(0, lineHeight, r.tr(b.Text), "", "L", false)
		}
	}
}

func (r *renderer) section(title string) {
	r.pdf.SetFont(fontFamily, "B", 13)
	r.pdf.CellFormat(0, 9, r.tr(title), "B", 1, "L", false, 0, "")
	r.pdf.Ln(2)
}

func (r *renderer) tableHeader(cols []column) {
	r.pdf.SetFont(fontFamily, "B", 9)
	r.pdf.SetFillColor(230, 230, 230)
	for i, col := range cols {
		ln := 0
		if i == len(cols)-1 {
			ln = 1
		}
		r.pdf.CellFormat(col.width, tableHeight, r.tr(col.title), "1", ln, "C", true, 0, "")
	}
}

// fit translates s and shortens it with "..." until it fits in width
func (r *renderer) fit(s string, width float64) string {
	out := r.tr(s)
	limit := width - 2
	if r.pdf.GetStringWidth(out) <= limit {
		return out
	}
	for len(out) > 0 && r.pdf.GetStringWidth(out+"...") > limit {
		out = out[:len(out)-1]
	}
	return out + "..."
}
