package convert

import (
	"regexp"
	"strings"
)

var (
	tableRow  = regexp.MustCompile(`(?is)<tr\b[^>]*>(.*?)</tr>`)
	tableCell = regexp.MustCompile(`(?is)<(?:th|td)\b[^>]*>(.*?)</(?:th|td)>`)
)

// ConvertTables renders each table as a pipe table. The first row is the
// header and the separator has as many columns as that row; later rows are
// written as they are, even when their cell count differs. Empty cells hold
// a single space. A table without rows disappears.
func ConvertTables(doc string) string {
	return tableEl.rewrite(doc, acceptAll, renderTable)
}

func renderTable(_ map[string]string, inner string) string {
	var rows [][]string
	for _, rm := range tableRow.FindAllStringSubmatch(inner, -1) {
		var cells []string
		for _, cm := range tableCell.FindAllStringSubmatch(rm[1], -1) {
			cell := flatten(cm[1])
			if cell == "" {
				cell = " "
			}
			cells = append(cells, cell)
		}
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	if len(rows) == 0 {
		return ""
	}
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, pipeRow(rows[0]), separatorRow(len(rows[0])))
	for _, r := range rows[1:] {
		lines = append(lines, pipeRow(r))
	}
	return "\n\n" + strings.Join(lines, "\n") + "\n\n"
}

func pipeRow(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}

func separatorRow(cols int) string {
	return "|" + strings.Repeat("---|", cols)
}
