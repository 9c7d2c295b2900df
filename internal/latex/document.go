package latex

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Document accumulates the LaTeX source for one expense report. Methods
// append fragments in order; the table body comes from Layout/FormatRow.
type Document struct {
	b strings.Builder
}

// NewDocument creates an empty document builder.
func NewDocument() *Document {
	return &Document{}
}

// Header writes the document class and package preamble.
func (d *Document) Header() {
	d.b.WriteString(`\documentclass[12pt, onecolumn, twoside]{article}

\usepackage[paperwidth=215.9mm, paperheight=279mm, hmargin=2.5cm, vmargin=2.5cm, centering]{geometry}
\usepackage{graphicx}
\usepackage{multirow}

\begin{document}

`)
}

// Title writes the title block and table of contents.
func (d *Document) Title(title string) {
	fmt.Fprintf(&d.b, `\title{%s}
\date{}
\maketitle
\newpage

\tableofcontents
\newpage

`, escape(title))
}

// Section starts a named section.
func (d *Document) Section(name string) {
	fmt.Fprintf(&d.b, "\n\\section{%s}\n", escape(name))
}

// Figure embeds a full-width image.
func (d *Document) Figure(path string) {
	fmt.Fprintf(&d.b, `
\begin{figure}[ht]
  \centering
  \includegraphics[width=\textwidth]{%s}
\end{figure}

`, path)
}

// DataTable writes the expense table: header row, the laid-out body rows,
// and the grand-total row.
func (d *Document) DataTable(rows []Row, total float64) {
	d.b.WriteString(`
\begin{table}[ht]
  \centering
  \begin{tabular}{llllr}
    Date & Category & Subcategory & Expense & Price (\$) \\ \hline \hline
    `)

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, FormatRow(row))
	}
	d.b.WriteString(strings.Join(lines, "\n    "))

	d.b.WriteString(" ")
	d.b.WriteString(FormatTotalRow(total))

	d.b.WriteString(`
  \end{tabular}
\end{table}
`)
}

// Footer closes the document.
func (d *Document) Footer() {
	d.b.WriteString("\n\\end{document}\n")
}

// String returns the accumulated LaTeX source.
func (d *Document) String() string {
	return d.b.String()
}

// WriteFile writes the accumulated source to the given path.
func (d *Document) WriteFile(path string) error {
	slog.Info("writing tex document", "path", path)
	if err := os.WriteFile(path, []byte(d.b.String()), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Compile runs pdflatex on the written document and removes the residual
// files it leaves behind. The .tex source itself is kept only when keepTex
// is set.
func Compile(ctx context.Context, texPath string, keepTex bool) error {
	cmd := exec.CommandContext(ctx, "pdflatex", "-interaction=nonstopmode", texPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		slog.Error("pdflatex failed", "path", texPath, "output", string(output))
		return fmt.Errorf("failed to compile %s: %w", texPath, err)
	}
	slog.Info("compiled report", "path", texPath)

	prefix := strings.TrimSuffix(texPath, ".tex")
	residuals := []string{prefix + ".aux", prefix + ".log", prefix + ".toc"}
	if !keepTex {
		residuals = append(residuals, texPath)
	}
	for _, path := range residuals {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove residual file", "path", path, "error", err)
		}
	}
	return nil
}
