package model

import "strings"

// BlockKind is how a line of an analysis report is rendered
type BlockKind string

const (
	BlockHeading   BlockKind = "heading"
	BlockBold      BlockKind = "bold"
	BlockListItem  BlockKind = "list_item"
	BlockParagraph BlockKind = "paragraph"
)

// ReportBlock is one rendered line of an analysis report
type ReportBlock struct {
	Kind BlockKind `json:"kind"`
	Text string    `json:"text"`
}

// ParseReport splits text into lines and classifies each by its prefix.
// "###" headings lose the first "###", bold lines lose every "**" and list
// items lose the first "-". Empty lines are kept as empty paragraphs.
func ParseReport(text string) []ReportBlock {
	lines := strings.Split(text, "\n")
	blocks := make([]ReportBlock, 0, len(lines))

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "###"):
			blocks = append(blocks, ReportBlock{Kind: BlockHeading, Text: strings.Replace(line, "###", "", 1)})
		case strings.HasPrefix(line, "**"):
			blocks = append(blocks, ReportBlock{Kind: BlockBold, Text: strings.ReplaceAll(line, "**", "")})
		case strings.HasPrefix(line, "-"):
			blocks = append(blocks, ReportBlock{Kind: BlockListItem, Text: strings.Replace(line, "-", "", 1)})
		default:
			blocks = append(blocks, ReportBlock{Kind: BlockParagraph, Text: line})
		}
	}

	return blocks
}

// FormatDateBR turns "YYYY-MM-DD" into "DD/MM/YYYY". Anything that does not
// split into three parts is returned as is.
func FormatDateBR(date string) string {
	if date == "" {
		return ""
	}
	parts := strings.Split(date, "-")
	if len(parts) != 3 {
		return date
	}
	return parts[2] + "/" + parts[1] + "/" + parts[0]
}
