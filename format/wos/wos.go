// Package wos parses Web of Science field-coded text exports into
// collections of articles.
package wos

import (
	"strconv"
	"strings"

	"github.com/bibx-go/bibx/format"
	"github.com/bibx-go/bibx/internal/bibxerr"
)

// wosFormat implements format.Format for Web of Science exports.
type wosFormat struct{}

func (wosFormat) Name() string          { return "wos" }
func (wosFormat) Description() string   { return "Web of Science (WoS) field-coded text export" }
func (wosFormat) Extensions() []string  { return []string{"txt", "ciw"} }

func init() {
	format.Register(wosFormat{})
}

// fieldParser converts the raw value lines collected for one field code
// into its canonical representation.
type fieldParser func(values []string) (any, error)

// isiField is one entry of the WoS field-code table: a canonical key, its
// aliases (extra keys the parsed value is also stored under), and how to
// parse its value lines.
type isiField struct {
	key     string
	aliases []string
	parse   fieldParser
}

func joined(sep string) fieldParser {
	return func(values []string) (any, error) {
		trimmed := make([]string, len(values))
		for i, v := range values {
			trimmed[i] = strings.TrimSpace(v)
		}
		return strings.Join(trimmed, sep), nil
	}
}

func identity(values []string) (any, error) {
	trimmed := make([]string, len(values))
	for i, v := range values {
		trimmed[i] = strings.TrimSpace(v)
	}
	return trimmed, nil
}

func delimited(delimiter string) fieldParser {
	return func(values []string) (any, error) {
		var out []string
		for _, line := range values {
			for _, word := range strings.Split(line, delimiter) {
				word = strings.TrimSpace(word)
				if word == "" {
					continue
				}
				out = append(out, word)
			}
		}
		return out, nil
	}
}

func integer(values []string) (any, error) {
	if len(values) != 1 {
		return nil, bibxerr.New(bibxerr.MalformedLine, "expected a single value, got %d", len(values))
	}
	n, err := strconv.Atoi(strings.TrimSpace(values[0]))
	if err != nil {
		return nil, bibxerr.Wrap(bibxerr.MalformedLine, err, "not an integer: %q", values[0])
	}
	return n, nil
}

// fields is the WoS field-code table. Unknown codes fall through to a raw
// identity parse under their own code in extra.
var fields = map[string]isiField{
	"AB": {"abstract", nil, joined(" ")},
	"AF": {"author_full_names", nil, identity},
	"AR": {"article_number", nil, joined(" ")},
	"AU": {"authors", nil, identity},
	"BA": {"book_authors", nil, identity},
	"BE": {"editors", nil, identity},
	"BN": {"isbn", nil, joined(" ")},
	"BP": {"beginning_page", nil, joined(" ")},
	"C1": {"author_address", nil, identity},
	"CA": {"group_authors", nil, identity},
	"CR": {"references", nil, identity},
	"DE": {"author_keywords", nil, delimited("; ")},
	"DI": {"doi", []string{"DOI"}, joined(" ")},
	"DT": {"document_type", nil, joined(" ")},
	"EP": {"ending_page", nil, joined(" ")},
	"FU": {"funding_agency_and_grant_number", nil, delimited("; ")},
	"FX": {"funding_text", nil, joined(" ")},
	"ID": {"keywords_plus", []string{"keywords"}, delimited("; ")},
	"IS": {"issue", nil, joined(" ")},
	"J9": {"source_abbreviation", nil, joined(" ")},
	"JI": {"iso_source_abbreviation", nil, joined(" ")},
	"LA": {"language", nil, joined(" ")},
	"NR": {"cited_reference_count", nil, integer},
	"OI": {"orcid_identifier", nil, delimited("; ")},
	"PD": {"publication_date", nil, joined(" ")},
	"PG": {"page_count", nil, integer},
	"PT": {"publication_type", nil, joined(" ")},
	"PU": {"publisher", nil, joined(" ")},
	"PY": {"year", []string{"publication_year"}, integer},
	"RP": {"reprint_address", nil, joined(" ")},
	"SC": {"research_areas", nil, delimited("; ")},
	"SN": {"issn", nil, joined(" ")},
	"SO": {"publication_name", nil, joined(" ")},
	"SP": {"conference_sponsors", nil, delimited(", ")},
	"TC": {"times_cited", []string{"wos_times_cited"}, integer},
	"TI": {"title", nil, joined(" ")},
	"UT": {"unique_article_identifier", nil, joined(" ")},
	"VL": {"volume", nil, joined(" ")},
	"WC": {"web_of_science_categories", nil, delimited("; ")},
	"Z9": {"total_times_cited_count", []string{"times_cited"}, integer},
}
