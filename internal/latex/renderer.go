// Package latex renders the nested expense table as a LaTeX tabular body and
// assembles the surrounding report document.
package latex

import (
	"fmt"
	"strings"

	"github.com/amesfield/bean-counter/internal/report"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Table columns are 1-indexed: date, category, subcategory, expense, price.
const (
	firstColumn = 1
	lastColumn  = 5
)

var titleCaser = cases.Title(language.English)

// Cell is one grouping cell of a body row. Span is the number of rows the
// cell covers vertically; a zero Span marks a continuation cell sitting under
// a span opened on an earlier row, which must stay empty.
type Cell struct {
	Text string
	Span int
}

// Rule is the horizontal separator closing a row, spanning columns From
// through To inclusive.
type Rule struct {
	From int
	To   int
}

// Row is one body row: the grouping cells (outermost first), the leaf
// expense name and formatted amount, and the separator rule.
type Row struct {
	Name   string
	Amount string
	Cells  []Cell
	Rule   Rule
}

// Layout converts the table into its row/span representation. The layout is
// computed in full before any text is emitted: span lengths come from leaf
// counts, and each row's rule is widened to the column of the outermost span
// closing on that row.
//
// An empty branch yields no rows; the caller must not build one.
func Layout(t *report.Table) []Row {
	rows := make([]Row, t.LeafCount())
	layoutNode(t.Root(), rows, 0, firstColumn)
	return rows
}

func layoutNode(n *report.Node, rows []Row, row, column int) {
	offset := 0
	for _, key := range n.Keys() {
		child := n.Child(key)
		r := row + offset

		if child.IsLeaf() {
			rows[r].Name = titleCaser.String(key)
			rows[r].Amount = fmt.Sprintf("%.2f", child.Amount())
			rows[r].Rule = Rule{From: column, To: lastColumn}
			offset++
			continue
		}

		span := child.LeafCount()
		rows[r].Cells = append(rows[r].Cells, Cell{Text: titleCaser.String(key), Span: span})
		for j := 1; j < span; j++ {
			rows[r+j].Cells = append(rows[r+j].Cells, Cell{})
		}

		layoutNode(child, rows, r, column+1)

		// The last row of the span closes this column's vertical block;
		// interior rows keep the narrower rule set by their own leaves.
		rows[r+span-1].Rule.From = column

		offset += span
	}
}

// FormatRow renders one laid-out row as a tabular source line.
func FormatRow(row Row) string {
	var b strings.Builder
	for _, cell := range row.Cells {
		if cell.Span > 0 {
			fmt.Fprintf(&b, `\multirow{%d}{*}{%s} `, cell.Span, escape(cell.Text))
		}
		b.WriteString("& ")
	}
	fmt.Fprintf(&b, `%s & %s \\ \cline{%d-%d}`, escape(row.Name), row.Amount, row.Rule.From, row.Rule.To)
	return b.String()
}

// FormatTotalRow renders the grand-total row that closes the table body.
func FormatTotalRow(total float64) string {
	return fmt.Sprintf(`\hline \hline%s\multicolumn{%d}{c}{TOTAL} & %.2f`, "\n    ", lastColumn-1, total)
}

// escape protects the characters LaTeX treats specially in cell text.
func escape(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\textbackslash{}`,
		`&`, `\&`,
		`%`, `\%`,
		`$`, `\$`,
		`#`, `\#`,
		`_`, `\_`,
		`{`, `\{`,
		`}`, `\}`,
		`~`, `\textasciitilde{}`,
		`^`, `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
