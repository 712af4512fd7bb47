package bibtex

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"

	jbibtex "github.com/jschaf/bibtex"
	"github.com/jschaf/bibtex/ast"

	"github.com/bibx-go/bibx/article"
	"github.com/bibx-go/bibx/helpers"
	"github.com/bibx-go/bibx/internal/bibxerr"
)

var (
	citedByRegex = regexp.MustCompile(`(?i)cited by:?\s*(\d+)`)
	yearInParens = regexp.MustCompile(`\((\d{4})\)`)
	doiRegex     = regexp.MustCompile(`(?i)(?:doi\.org/|doi:?\s*)?(10\.\d{4,9}/\S+)`)
)

// Parse reads a Scopus BibTeX export and returns its articles. Each @-entry
// is resolved independently; an entry missing author or year is dropped.
func Parse(content string) ([]*article.Article, error) {
	biber := jbibtex.New()
	file, err := biber.Parse(strings.NewReader(content))
	if err != nil {
		return nil, bibxerr.Wrap(bibxerr.InvalidFormat, err, "not a BibTeX file")
	}

	entries, err := biber.Resolve(file)
	if err != nil {
		return nil, bibxerr.Wrap(bibxerr.MalformedLine, err, "resolving BibTeX entries")
	}

	var articles []*article.Article
	for _, entry := range entries {
		tags := renderTags(biber, entry.Tags)
		a, ok := articleFromTags(tags)
		if !ok {
			continue
		}
		articles = append(articles, a)
	}
	return articles, nil
}

// renderTags flattens every tag expression to its plain-text rendering, so
// callers never need to inspect jschaf/bibtex's AST node types directly.
func renderTags(biber *jbibtex.Biber, tags map[jbibtex.Field]ast.Expr) map[string]string {
	out := make(map[string]string, len(tags))
	for field, expr := range tags {
		var buf bytes.Buffer
		if err := biber.Render(&buf, expr); err != nil {
			continue
		}
		out[field] = strings.TrimSpace(buf.String())
	}
	return out
}

func articleFromTags(tags map[string]string) (*article.Article, bool) {
	authorField := tags[jbibtex.FieldAuthor]
	yearField := tags[jbibtex.FieldYear]
	if authorField == "" || yearField == "" {
		return nil, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(yearField))
	if err != nil {
		return nil, false
	}

	a := article.New()
	a.Authors = helpers.SplitNames(authorField, " and ")
	a.Year = &year

	if title := tags[jbibtex.FieldTitle]; title != "" {
		a.Title = &title
	}
	if journal := tags[jbibtex.FieldJournal]; journal != "" {
		a.Journal = &journal
	}
	if volume := tags[jbibtex.FieldVolume]; volume != "" {
		a.Volume = &volume
	}
	if issue := tags[jbibtex.FieldNumber]; issue != "" {
		a.Issue = &issue
	}
	if pages := tags[jbibtex.FieldPages]; pages != "" {
		page := strings.ReplaceAll(pages, "--", "-")
		a.Page = &page
	}
	if doi := tags[jbibtex.EntryDOI]; doi != "" {
		a.DOI = &doi
		a.AddID("doi:" + doi)
	}
	if note := tags[jbibtex.FieldNote]; note != "" {
		if m := citedByRegex.FindStringSubmatch(note); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				a.TimesCited = &n
			}
		}
	}

	a.AddSource("scopus-bib")
	extra := map[string]any{}
	for k, v := range tags {
		extra[k] = v
	}
	a.Extra = extra
	a.AddSimpleID()
	a.SetSimpleLabel()

	a.References = parseReferences(tags["references"])
	return a, true
}

// parseReferences splits a BibTeX "references" tag on "; " and parses each
// segment as "<author>, ... (<year>) ..., <doi?>". A segment with no
// parseable year is dropped.
func parseReferences(field string) []*article.Article {
	if field == "" {
		return nil
	}
	var refs []*article.Article
	for _, segment := range strings.Split(field, "; ") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		loc := yearInParens.FindStringSubmatchIndex(segment)
		if loc == nil {
			continue
		}
		year, err := strconv.Atoi(segment[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		before := strings.TrimSpace(segment[:loc[0]])
		before = strings.TrimSuffix(before, ",")
		var author string
		if idx := strings.Index(before, ","); idx >= 0 {
			author = strings.TrimSpace(before[:idx])
		} else {
			author = before
		}

		ref := article.New()
		if author != "" {
			ref.Authors = []string{author}
		}
		ref.Year = &year
		if m := doiRegex.FindStringSubmatch(segment); m != nil {
			doi := m[1]
			ref.DOI = &doi
			ref.AddID("doi:" + doi)
		}
		ref.AddSource("scopus-bib")
		ref.AddSimpleID()
		ref.SetSimpleLabel()
		refs = append(refs, ref)
	}
	return refs
}
