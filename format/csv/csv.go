// Package csv parses Scopus CSV exports into collections of articles.
package csv

import "github.com/bibx-go/bibx/format"

type csvFormat struct{}

func (csvFormat) Name() string         { return "csv" }
func (csvFormat) Description() string  { return "Scopus CSV export" }
func (csvFormat) Extensions() []string { return []string{"csv"} }

func init() {
	format.Register(csvFormat{})
}
