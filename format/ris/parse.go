package ris

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/bibx-go/bibx/article"
	"github.com/bibx-go/bibx/internal/bibxerr"
)

// tagLineRegex matches a tagged RIS line: a two-character uppercase/digit
// key, two spaces, a dash, then the value (possibly empty, and possibly
// with no separating space at all - exporters are inconsistent about
// trimming the end-of-record "ER  -" line). Lines that don't match are
// continuations of the previously seen tag.
var tagLineRegex = regexp.MustCompile(`^([A-Z0-9]{2})  -\s*(.*)$`)

// recordEnd is the RIS end-of-record tag.
const recordEnd = "ER"

var (
	yearInParens = regexp.MustCompile(`\((\d{4})\)`)
	volumeRegex  = regexp.MustCompile(`(?P<volume>\d+)(?: \((?P<issue>[^)]+)\))?`)
	pageRegex    = regexp.MustCompile(`pp?\. ?(?P<page>\w+)(?:-\S+)?`)
	doiRegex     = regexp.MustCompile(`(?i)(?:doi\.org/|aps\.org/doi/|doi:?\s*)?(10\.\d{4,9}/\S+)`)
)

// Parse reads a Scopus RIS export and returns its articles. Records are
// separated by ER lines; a record missing authors or year is dropped.
func Parse(content string) ([]*article.Article, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var articles []*article.Article
	raw := map[string][]string{}
	var current string
	order := []string{} // tags in first-seen order; recorded but not read by the parser

	flush := func() error {
		if len(raw) == 0 {
			return nil
		}
		a, err := recordFromFields(raw)
		raw = map[string][]string{}
		order = order[:0]
		current = ""
		if err != nil {
			if bibxIsMissingCritical(err) {
				return nil
			}
			return err
		}
		articles = append(articles, a)
		return nil
	}

	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		m := tagLineRegex.FindStringSubmatch(line)
		if m == nil {
			if current != "" {
				raw[current] = append(raw[current], strings.TrimSpace(line))
			}
			continue
		}
		key, value := m[1], strings.TrimSpace(m[2])
		if key == recordEnd {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		if key == "N1" {
			bucket, content := splitNote(value)
			if _, seen := raw[bucket]; !seen {
				order = append(order, bucket)
			}
			if content != "" {
				raw[bucket] = append(raw[bucket], content)
			}
			current = bucket
			continue
		}
		if _, seen := raw[key]; !seen {
			order = append(order, key)
		}
		raw[key] = append(raw[key], value)
		current = key
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return articles, nil
}

// splitNote splits an N1 line into its bucket label and inline content, for
// Scopus's habit of encoding several logical fields inside N1 notes (e.g.
// "Cited By: 5", or a bare "References" header followed by continuation
// lines holding the actual reference list).
func splitNote(value string) (bucket, content string) {
	if idx := strings.Index(value, ":"); idx >= 0 {
		label := strings.TrimSpace(value[:idx])
		rest := strings.TrimSpace(value[idx+1:])
		return "N1:" + label, rest
	}
	return "N1:" + value, ""
}

func bibxIsMissingCritical(err error) bool {
	e, ok := err.(*bibxerr.Error)
	return ok && e.Kind == bibxerr.MissingCriticalInformation
}

func recordFromFields(raw map[string][]string) (*article.Article, error) {
	authors := raw["AU"]
	year, hasYear := firstYear(raw["PY"], raw["Y1"], raw["DA"])
	if len(authors) == 0 || !hasYear {
		return nil, bibxerr.New(bibxerr.MissingCriticalInformation, "record missing authors or year")
	}

	a := article.New()
	a.Authors = authors
	a.Year = &year

	if title := first(raw["TI"], raw["T1"]); title != "" {
		a.Title = &title
	}
	if journal := first(raw["T2"], raw["JO"], raw["JF"]); journal != "" {
		a.Journal = &journal
	}
	if volume := first(raw["VL"]); volume != "" {
		a.Volume = &volume
	}
	if issue := first(raw["IS"]); issue != "" {
		a.Issue = &issue
	}
	if page := buildPage(first(raw["SP"]), first(raw["EP"])); page != "" {
		a.Page = &page
	}
	if doi := first(raw["DO"]); doi != "" {
		a.DOI = &doi
		a.AddID("doi:" + doi)
	}
	// splitNote has already stripped the "Cited By" label, so each bucket
	// line holds just the count.
	for _, line := range raw["N1:Cited By"] {
		if n, err := strconv.Atoi(strings.TrimSpace(line)); err == nil {
			a.TimesCited = &n
		}
	}
	a.Keywords = append(a.Keywords, raw["KW"]...)

	a.AddSource("scopus-ris")
	extra := map[string]any{}
	for k, v := range raw {
		extra[k] = v
	}
	a.Extra = extra
	a.AddSimpleID()
	a.SetSimpleLabel()

	a.References = parseReferences(raw["N1:References"])
	return a, nil
}

func first(lists ...[]string) string {
	for _, l := range lists {
		if len(l) > 0 && l[0] != "" {
			return l[0]
		}
	}
	return ""
}

func firstYear(lists ...[]string) (int, bool) {
	for _, l := range lists {
		for _, v := range l {
			digits := v
			if len(digits) > 4 {
				digits = digits[:4]
			}
			if n, err := strconv.Atoi(digits); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

func buildPage(sp, ep string) string {
	switch {
	case sp != "" && ep != "":
		return sp + "-" + ep
	default:
		return sp
	}
}

// parseReferences parses each "References" note line of the shape
// "<authors> (YYYY) <journal>, <rest>" into a reference Article. A line
// with no parseable year is dropped.
func parseReferences(lines []string) []*article.Article {
	var refs []*article.Article
	for _, line := range lines {
		loc := yearInParens.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		authors := strings.TrimSpace(line[:loc[0]])
		if idx := strings.Index(authors, ","); idx >= 0 {
			authors = strings.TrimSpace(authors[:idx])
		}
		year, err := strconv.Atoi(line[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		rest := strings.TrimSpace(line[loc[1]:])
		rest = strings.TrimPrefix(rest, ",")
		rest = strings.TrimSpace(rest)

		var journal string
		if idx := strings.Index(rest, ","); idx >= 0 {
			journal = strings.TrimSpace(rest[:idx])
			rest = rest[idx+1:]
		} else {
			journal = rest
			rest = ""
		}

		ref := article.New()
		if authors != "" {
			ref.Authors = []string{authors}
		}
		ref.Year = &year
		if journal != "" {
			ref.Journal = &journal
		}
		if m := volumeRegex.FindStringSubmatch(rest); m != nil {
			volume := m[1]
			ref.Volume = &volume
			if issue := m[2]; issue != "" {
				ref.Issue = &issue
			}
		}
		if m := pageRegex.FindStringSubmatch(rest); m != nil {
			page := m[1]
			ref.Page = &page
		}
		if m := doiRegex.FindStringSubmatch(rest); m != nil {
			doi := m[1]
			ref.DOI = &doi
			ref.AddID("doi:" + doi)
		}
		ref.AddSource("scopus-ris")
		ref.AddSimpleID()
		ref.SetSimpleLabel()
		refs = append(refs, ref)
	}
	return refs
}
