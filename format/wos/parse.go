package wos

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/bibx-go/bibx/article"
	"github.com/bibx-go/bibx/internal/bibxerr"
)

// fieldLineRegex recognizes a WoS field-start line: a two-character
// uppercase/digit code, a separating space, and the value (possibly empty).
var fieldLineRegex = regexp.MustCompile(`^([A-Z0-9]{2}) ?(.*)$`)

// continuationPrefix marks a line that continues the previous field's
// value on a new line (WoS indents continuation lines three spaces).
const continuationPrefix = "   "

// sentinels mark the end of a record and are never field codes.
var sentinels = map[string]bool{"ER": true, "EF": true}

// citationPattern parses a single CR reference line of the shape
// "AU, PY, J9[, VL][, BP][, DI]".
var citationPattern = regexp.MustCompile(
	`^(?P<authors>[^,]*),\s*(?P<year>\d{4})` +
		`(?:,\s*(?P<journal>[^,]+?))?` +
		`(?:,\s*V(?P<volume>[^,]+))?` +
		`(?:,\s*P(?P<page>[^,]+))?` +
		`(?:,\s*DOI\s+(?P<doi>.+))?\s*$`,
)

// Parse reads a Web of Science field-coded text export and returns its
// articles. Each file may contain multiple "\n\n"-separated records;
// records are parsed independently and a malformed record is dropped
// rather than failing the whole file.
func Parse(content string) ([]*article.Article, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	blocks := strings.Split(content, "\n\n")

	var articles []*article.Article
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		a, err := parseRecord(block)
		if err != nil {
			// MissingCriticalInformation and MalformedLine are both fatal
			// only for this one record, per bibxerr's taxonomy - a single
			// bad field (or content from some other format that happens to
			// look field-coded) must not abort the rest of the file.
			if errors.Is(err, bibxerr.ErrMissingCriticalInformation) || errors.Is(err, bibxerr.ErrMalformedLine) {
				continue
			}
			return nil, err
		}
		if a != nil {
			articles = append(articles, a)
		}
	}
	return articles, nil
}

// splitFields accumulates, per field code, every value line belonging to it
// (the first line plus any indented continuations).
func splitFields(block string) map[string][]string {
	raw := map[string][]string{}
	var current string
	for _, line := range strings.Split(block, "\n") {
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, continuationPrefix) && current != "" {
			raw[current] = append(raw[current], strings.TrimSpace(line))
			continue
		}
		m := fieldLineRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		code, value := m[1], strings.TrimSpace(m[2])
		if sentinels[code] {
			current = ""
			continue
		}
		current = code
		raw[code] = append(raw[code], value)
	}
	return raw
}

func parseRecord(block string) (*article.Article, error) {
	raw := splitFields(block)

	a := article.New()
	extra := map[string]any{}

	for code, values := range raw {
		if code == "CR" {
			continue // references are handled separately below
		}
		def, ok := fields[code]
		if !ok {
			extra[code] = values
			continue
		}
		parsed, err := def.parse(values)
		if err != nil {
			return nil, bibxerr.Wrap(bibxerr.MalformedLine, err, "field %s", code)
		}
		extra[def.key] = parsed
		for _, alias := range def.aliases {
			extra[alias] = parsed
		}
	}

	authors, _ := extra["authors"].([]string)
	a.Authors = authors

	year, hasYear := extra["year"].(int)
	if !hasYear || len(authors) == 0 {
		return nil, bibxerr.New(bibxerr.MissingCriticalInformation, "record missing authors or year")
	}
	a.Year = &year

	if title, ok := extra["title"].(string); ok && title != "" {
		a.Title = &title
	}
	if journal, ok := extra["publication_name"].(string); ok && journal != "" {
		a.Journal = &journal
	}
	if volume, ok := extra["volume"].(string); ok && volume != "" {
		a.Volume = &volume
	}
	if issue, ok := extra["issue"].(string); ok && issue != "" {
		a.Issue = &issue
	}
	if page := buildPage(extra); page != "" {
		a.Page = &page
	}
	if doi, ok := extra["doi"].(string); ok && doi != "" {
		a.DOI = &doi
		a.AddID("doi:" + doi)
	}
	if tc, ok := extra["times_cited"].(int); ok {
		a.TimesCited = &tc
	}

	for _, kw := range asStrings(extra["author_keywords"]) {
		a.Keywords = append(a.Keywords, kw)
	}
	for _, kw := range asStrings(extra["keywords_plus"]) {
		a.Keywords = append(a.Keywords, kw)
	}

	a.AddSource("wos")
	a.Extra = extra
	a.AddSimpleID()
	a.SetSimpleLabel()

	a.References = parseReferences(raw["CR"])
	return a, nil
}

func buildPage(extra map[string]any) string {
	bp, _ := extra["beginning_page"].(string)
	ep, _ := extra["ending_page"].(string)
	switch {
	case bp != "" && ep != "":
		return bp + "-" + ep
	default:
		return bp
	}
}

func asStrings(v any) []string {
	s, _ := v.([]string)
	return s
}

// parseReferences parses every CR line into a reference Article. A line
// that does not carry a parseable publication year is dropped rather than
// producing a reference with no identity.
func parseReferences(lines []string) []*article.Article {
	var refs []*article.Article
	for _, line := range lines {
		m := citationPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		groups := namedGroups(citationPattern, m)

		year, err := strconv.Atoi(groups["year"])
		if err != nil {
			continue
		}

		ref := article.New()
		if authors := strings.TrimSpace(groups["authors"]); authors != "" {
			ref.Authors = []string{authors}
		}
		ref.Year = &year
		if journal := strings.TrimSpace(groups["journal"]); journal != "" {
			ref.Journal = &journal
		}
		if volume := strings.TrimSpace(groups["volume"]); volume != "" {
			ref.Volume = &volume
		}
		if page := strings.TrimSpace(groups["page"]); page != "" {
			ref.Page = &page
		}
		if doi := strings.TrimSpace(groups["doi"]); doi != "" {
			ref.DOI = &doi
			ref.AddID("doi:" + doi)
		}
		ref.AddSource("wos")
		ref.AddSimpleID()
		ref.SetSimpleLabel()
		refs = append(refs, ref)
	}
	return refs
}

func namedGroups(re *regexp.Regexp, match []string) map[string]string {
	groups := map[string]string{}
	for i, name := range re.SubexpNames() {
		if name == "" || i >= len(match) {
			continue
		}
		groups[name] = match[i]
	}
	return groups
}
