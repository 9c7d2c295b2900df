package latex

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentAssembly(t *testing.T) {
	table := buildTable(
		li("01/02", "food", "produce", "apples", 2.00),
		li("01/02", "food", "dairy", "milk", 3.50),
	)

	doc := NewDocument()
	doc.Header()
	doc.Title("January 2026")
	doc.Section("Expense Data")
	doc.DataTable(Layout(table), table.Total())
	doc.Footer()

	src := doc.String()
	for _, want := range []string{
		`\documentclass`,
		`\usepackage{multirow}`,
		`\title{January 2026}`,
		`\section{Expense Data}`,
		`Date & Category & Subcategory & Expense & Price (\$)`,
		`\multirow{2}{*}{01/02}`,
		`\multirow{2}{*}{Food}`,
		`\multicolumn{4}{c}{TOTAL} & 5.50`,
		`\end{document}`,
	} {
		assert.Contains(t, src, want)
	}

	// The preamble must open the document exactly once.
	assert.Equal(t, 1, strings.Count(src, `\begin{document}`))
}

func TestDocumentFigure(t *testing.T) {
	doc := NewDocument()
	doc.Figure("overall.png")

	assert.Contains(t, doc.String(), `\includegraphics[width=\textwidth]{overall.png}`)
}

func TestDocumentWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.tex")

	doc := NewDocument()
	doc.Header()
	doc.Footer()
	require.NoError(t, doc.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `\end{document}`)
}
