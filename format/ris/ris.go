// Package ris parses Scopus RIS exports into collections of articles.
package ris

import "github.com/bibx-go/bibx/format"

type risFormat struct{}

func (risFormat) Name() string         { return "ris" }
func (risFormat) Description() string  { return "Scopus RIS export" }
func (risFormat) Extensions() []string { return []string{"ris"} }

func init() {
	format.Register(risFormat{})
}
