package cli

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/usecase"
)

func TestRenderReport(t *testing.T) {
	color.NoColor = true

	t.Run("blocks are rendered by kind", func(t *testing.T) {
		var buf bytes.Buffer
		renderReport(&buf, "Seguradora", &usecase.AnalysisResult{
			Text:   "### Resumo\n**Crítico**\n- item",
			Blocks: model.ParseReport("### Resumo\n**Crítico**\n- item"),
		})

		out := buf.String()
		gt.String(t, out).Contains("Análise Estratégica de Riscos - Seguradora")
		gt.String(t, out).Contains(" Resumo\n")
		gt.String(t, out).Contains("Crítico\n")
		gt.String(t, out).Contains("  • item\n")
		gt.Bool(t, bytes.Contains(buf.Bytes(), []byte("**"))).False()
	})

	t.Run("failed result prints the message only", func(t *testing.T) {
		var buf bytes.Buffer
		renderReport(&buf, "Consolidado", &usecase.AnalysisResult{
			Text:   "Não foi possível gerar a análise no momento.",
			Failed: true,
		})
		gt.String(t, buf.String()).Contains("Não foi possível gerar a análise no momento.")
	})
}

func TestParseDashboardQuery(t *testing.T) {
	t.Run("valid selectors", func(t *testing.T) {
		q, err := parseDashboardQuery("Ciclos Pay", "Alto", "Rascunho")
		gt.NoError(t, err).Required()
		gt.Value(t, q.Unit).Equal(types.SelectUnit(types.UnitPayments))
		gt.Value(t, q.Level).Equal(types.LevelFilter(types.RiskLevelHigh))
		gt.Value(t, q.Status).Equal(types.StatusFilterDraft)
	})

	t.Run("empty selectors select everything", func(t *testing.T) {
		q, err := parseDashboardQuery("", "", "")
		gt.NoError(t, err).Required()
		gt.Value(t, q.Unit).Equal(types.UnitSelectorAll)
	})

	t.Run("unknown unit", func(t *testing.T) {
		_, err := parseDashboardQuery("Banco", "", "")
		gt.Error(t, err).Is(types.ErrInvalidUnit)
	})
}
