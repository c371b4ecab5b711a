package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/model"
)

func TestParseReport(t *testing.T) {
	text := "### Vulnerabilidade Principal\n" +
		"**Fraude em Sinistros** é o risco dominante\n" +
		"- Revisar a política de subscrição\n" +
		"Texto corrido com - hífen e **negrito**\n" +
		"\n" +
		"-- item duplo"

	blocks := model.ParseReport(text)
	gt.Value(t, blocks).Equal([]model.ReportBlock{
		{Kind: model.BlockHeading, Text: " Vulnerabilidade Principal"},
		{Kind: model.BlockBold, Text: "Fraude em Sinistros é o risco dominante"},
		{Kind: model.BlockListItem, Text: " Revisar a política de subscrição"},
		{Kind: model.BlockParagraph, Text: "Texto corrido com - hífen e **negrito**"},
		{Kind: model.BlockParagraph, Text: ""},
		{Kind: model.BlockListItem, Text: "- item duplo"},
	})
}

func TestParseReportHeadingKeepsLaterMarkers(t *testing.T) {
	blocks := model.ParseReport("###### Ações ###")
	gt.Array(t, blocks).Length(1)
	gt.Value(t, blocks[0]).Equal(model.ReportBlock{Kind: model.BlockHeading, Text: "### Ações ###"})
}

func TestFormatDateBR(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "2024-03-01", want: "01/03/2024"},
		{in: "2023-10-15", want: "15/10/2023"},
		{in: "", want: ""},
		{in: "15/10/2023", want: "15/10/2023"},
		{in: "2024-03", want: "2024-03"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			gt.Value(t, model.FormatDateBR(tt.in)).Equal(tt.want)
		})
	}
}
