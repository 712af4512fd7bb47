// Package bibtex parses Scopus BibTeX exports into collections of
// articles, using github.com/jschaf/bibtex for AST parsing and rendering.
package bibtex

import "github.com/bibx-go/bibx/format"

type bibtexFormat struct{}

func (bibtexFormat) Name() string         { return "bib" }
func (bibtexFormat) Description() string  { return "Scopus BibTeX export" }
func (bibtexFormat) Extensions() []string { return []string{"bib"} }

func init() {
	format.Register(bibtexFormat{})
}
