// Package bibx is the top-level facade: one reader function per supported
// format, plus an auto-detecting reader that tries each in turn.
package bibx

import (
	"errors"

	"github.com/bibx-go/bibx/article"
	"github.com/bibx-go/bibx/format/bibtex"
	"github.com/bibx-go/bibx/format/csv"
	"github.com/bibx-go/bibx/format/ris"
	"github.com/bibx-go/bibx/format/wos"
	"github.com/bibx-go/bibx/internal/bibxerr"
)

// ReadWos parses a Web of Science field-coded text export.
func ReadWos(content string) ([]*article.Article, error) {
	return wos.Parse(content)
}

// ReadScopusRIS parses a Scopus RIS export.
func ReadScopusRIS(content string) ([]*article.Article, error) {
	return ris.Parse(content)
}

// ReadScopusBibTeX parses a Scopus BibTeX export.
func ReadScopusBibTeX(content string) ([]*article.Article, error) {
	return bibtex.Parse(content)
}

// ReadScopusCSV parses a Scopus CSV export.
func ReadScopusCSV(content string) ([]*article.Article, error) {
	return csv.Parse(content)
}

// readers is tried in this exact order by ReadAny: wos, ris, csv, bib. This
// order is fixed and does not consult the format registry, which exists
// only for format discovery/description (see format.List).
var readers = []func(string) ([]*article.Article, error){
	ReadWos,
	ReadScopusRIS,
	ReadScopusCSV,
	ReadScopusBibTeX,
}

// ReadAny tries each supported format's reader in the fixed order
// wos → ris → csv → bib, returning the first one that produces at least one
// article. A reader that fails with InvalidFormat or yields nothing is
// skipped; any other reader error is returned at once. If no reader
// produces an article, ReadAny returns an InvalidFormat error.
func ReadAny(content string) ([]*article.Article, error) {
	for _, read := range readers {
		articles, err := read(content)
		if err != nil {
			if errors.Is(err, bibxerr.ErrInvalidFormat) {
				continue
			}
			return nil, err
		}
		if len(articles) > 0 {
			return articles, nil
		}
	}
	return nil, bibxerr.New(bibxerr.InvalidFormat, "content did not match any supported format")
}
