package csv

import (
	"encoding/csv"
	"regexp"
	"strconv"
	"strings"

	"github.com/bibx-go/bibx/article"
	"github.com/bibx-go/bibx/internal/bibxerr"
)

// columnAliases maps each canonical column name (and its Scopus export
// aliases) to the field it populates. Scopus CSV exports prefix the first
// header cell with a UTF-8 BOM, which the reader strips before matching.
var columnAliases = map[string]string{
	"authors":         "authors",
	"title":           "title",
	"year":            "year",
	"source title":    "journal",
	"volume":          "volume",
	"issue":           "issue",
	"page start":      "page_start",
	"page end":        "page_end",
	"doi":             "doi",
	"cited by":        "times_cited",
	"author keywords": "author_keywords",
	"index keywords":  "index_keywords",
	"references":      "references",
}

var bareNameRegex = regexp.MustCompile(`^(\S+(?: \S+)*?) ([A-Z]\.(?:[A-Z]\.)*)$`)
var yearTokenRegex = regexp.MustCompile(`^\d{4}$`)

// rotateAuthorName rewrites a Scopus "Surname F." author into "Surname, F."
// so author strings are consistent with the other parsers' output.
func rotateAuthorName(name string) string {
	name = strings.TrimSpace(name)
	if strings.Contains(name, ",") {
		return name
	}
	if m := bareNameRegex.FindStringSubmatch(name); m != nil {
		return m[1] + ", " + m[2]
	}
	return name
}

// Parse reads a Scopus CSV export and returns its articles. A row missing
// authors or year is dropped.
func Parse(content string) ([]*article.Article, error) {
	content = strings.TrimPrefix(content, "\xef\xbb\xbf")
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, bibxerr.Wrap(bibxerr.InvalidFormat, err, "reading CSV header")
	}

	fieldIndex := map[string]int{}
	for i, col := range header {
		col = strings.TrimPrefix(strings.TrimSpace(col), "\xef\xbb\xbf")
		if field, ok := columnAliases[strings.ToLower(col)]; ok {
			fieldIndex[field] = i
		}
	}

	var articles []*article.Article
	for {
		row, err := reader.Read()
		if err != nil {
			break
		}
		a, ok := articleFromRow(row, fieldIndex)
		if ok {
			articles = append(articles, a)
		}
	}
	return articles, nil
}

func cell(row []string, fieldIndex map[string]int, field string) string {
	i, ok := fieldIndex[field]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func articleFromRow(row []string, fieldIndex map[string]int) (*article.Article, bool) {
	authorsField := cell(row, fieldIndex, "authors")
	yearField := cell(row, fieldIndex, "year")
	if authorsField == "" || yearField == "" {
		return nil, false
	}
	year, err := strconv.Atoi(yearField)
	if err != nil {
		return nil, false
	}

	a := article.New()
	for _, author := range strings.Split(authorsField, "; ") {
		author = strings.TrimSpace(author)
		if author == "" {
			continue
		}
		a.Authors = append(a.Authors, rotateAuthorName(author))
	}
	a.Year = &year

	if title := cell(row, fieldIndex, "title"); title != "" {
		a.Title = &title
	}
	if journal := cell(row, fieldIndex, "journal"); journal != "" {
		a.Journal = &journal
	}
	if volume := cell(row, fieldIndex, "volume"); volume != "" {
		a.Volume = &volume
	}
	if issue := cell(row, fieldIndex, "issue"); issue != "" {
		a.Issue = &issue
	}
	if page := buildPage(cell(row, fieldIndex, "page_start"), cell(row, fieldIndex, "page_end")); page != "" {
		a.Page = &page
	}
	if doi := cell(row, fieldIndex, "doi"); doi != "" {
		a.DOI = &doi
		a.AddID("doi:" + doi)
	}
	if tc := cell(row, fieldIndex, "times_cited"); tc != "" {
		if n, err := strconv.Atoi(tc); err == nil {
			a.TimesCited = &n
		}
	}
	for _, kw := range splitNonEmpty(cell(row, fieldIndex, "author_keywords"), "; ") {
		a.Keywords = append(a.Keywords, kw)
	}
	for _, kw := range splitNonEmpty(cell(row, fieldIndex, "index_keywords"), "; ") {
		a.Keywords = append(a.Keywords, kw)
	}

	a.AddSource("scopus-csv")
	a.AddSimpleID()
	a.SetSimpleLabel()

	a.References = parseReferences(cell(row, fieldIndex, "references"))
	return a, true
}

func splitNonEmpty(s, sep string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, sep) {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func buildPage(start, end string) string {
	switch {
	case start != "" && end != "":
		return start + "-" + end
	default:
		return start
	}
}

// parseReferences splits a Scopus "References" cell into entries on "; ",
// splits each entry on ", " and looks for the rightmost 4-digit year token: the first token is the lead author,
// everything between is kept as the reference's title, everything after
// the year is discarded. A reference with no locatable year is dropped.
func parseReferences(field string) []*article.Article {
	if field == "" {
		return nil
	}
	var refs []*article.Article
	for _, entry := range strings.Split(field, "; ") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		tokens := strings.Split(entry, ", ")
		if len(tokens) < 2 {
			continue
		}
		yearIdx := -1
		for i := len(tokens) - 1; i >= 0; i-- {
			if yearTokenRegex.MatchString(strings.TrimSpace(tokens[i])) {
				yearIdx = i
				break
			}
		}
		if yearIdx <= 0 {
			continue
		}
		year, err := strconv.Atoi(strings.TrimSpace(tokens[yearIdx]))
		if err != nil {
			continue
		}

		ref := article.New()
		ref.Authors = []string{rotateAuthorName(tokens[0])}
		ref.Year = &year
		if yearIdx > 1 {
			title := strings.Join(tokens[1:yearIdx], ", ")
			ref.Title = &title
		}
		ref.AddSource("scopus-csv")
		ref.AddSimpleID()
		ref.SetSimpleLabel()
		refs = append(refs, ref)
	}
	return refs
}
