// Package article defines the shared bibliographic record model used by
// every format parser, the consolidator, and the SAP classifier.
package article

import (
	"fmt"
	"sort"
	"strings"
)

// Article is a single bibliographic record. Its identity is the set of
// prefixed identifiers in Ids, not any single field - two Articles that
// share even one id refer to the same underlying work.
type Article struct {
	Label       string
	Ids         map[string]struct{}
	Authors     []string
	Year        *int
	Title       *string
	Journal     *string
	Volume      *string
	Issue       *string
	Page        *string
	DOI         *string
	permalink   *string
	TimesCited  *int
	References  []*Article
	Keywords    []string
	Sources     map[string]struct{}
	Extra       map[string]any
}

// New returns an Article with its id and source sets initialized.
func New() *Article {
	return &Article{
		Ids:     map[string]struct{}{},
		Sources: map[string]struct{}{},
		Extra:   map[string]any{},
	}
}

// AddID adds a prefixed identifier to the article.
func (a *Article) AddID(id string) {
	if a.Ids == nil {
		a.Ids = map[string]struct{}{}
	}
	a.Ids[id] = struct{}{}
}

// AddSource records a provenance tag.
func (a *Article) AddSource(source string) {
	if a.Sources == nil {
		a.Sources = map[string]struct{}{}
	}
	a.Sources[source] = struct{}{}
}

// SetPermalink overrides the derived permalink with an explicit one.
func (a *Article) SetPermalink(link string) {
	a.permalink = &link
}

// Permalink returns the canonical URL for the article, falling back to the
// DOI resolver when no explicit permalink was set.
func (a *Article) Permalink() *string {
	if a.permalink != nil {
		return a.permalink
	}
	if a.DOI != nil {
		link := fmt.Sprintf("https://doi.org/%s", *a.DOI)
		return &link
	}
	return nil
}

// SimpleID returns "lowercase(firstAuthorSurname)+year" when both are
// known, or nil otherwise.
func (a *Article) SimpleID() *string {
	if len(a.Authors) == 0 || a.Year == nil {
		return nil
	}
	surname := strings.Split(a.Authors[0], " ")[0]
	surname = strings.ReplaceAll(surname, ",", "")
	id := strings.ToLower(fmt.Sprintf("%s%d", surname, *a.Year))
	return &id
}

// AddSimpleID appends the derived simple id to Ids, if one can be derived.
func (a *Article) AddSimpleID() *Article {
	if id := a.SimpleID(); id != nil {
		a.AddID("simple:" + *id)
	}
	return a
}

// SimpleLabel renders "AU, PY, J9, V<volume>, P<page>, DOI <doi>",
// omitting absent parts; returns nil if every part is absent.
func (a *Article) SimpleLabel() *string {
	pieces := make([]string, 0, 6)
	if len(a.Authors) > 0 {
		pieces = append(pieces, strings.ReplaceAll(a.Authors[0], ",", ""))
	}
	if a.Year != nil {
		pieces = append(pieces, fmt.Sprintf("%d", *a.Year))
	}
	if a.Journal != nil {
		pieces = append(pieces, *a.Journal)
	}
	if a.Volume != nil {
		pieces = append(pieces, "V"+*a.Volume)
	}
	if a.Page != nil {
		pieces = append(pieces, "P"+*a.Page)
	}
	if a.DOI != nil {
		pieces = append(pieces, "DOI "+*a.DOI)
	}
	if len(pieces) == 0 {
		return nil
	}
	label := strings.Join(pieces, ", ")
	return &label
}

// SetSimpleLabel overwrites Label with SimpleLabel, if one can be derived.
func (a *Article) SetSimpleLabel() *Article {
	if label := a.SimpleLabel(); label != nil {
		a.Label = *label
	}
	return a
}

// Key returns the lexicographically smallest id, used only for legacy
// graph keying; article identity is always the full Ids set.
func (a *Article) Key() string {
	ids := a.SortedIds()
	if len(ids) == 0 {
		return ""
	}
	return ids[0]
}

// SortedIds returns Ids as a sorted slice, for deterministic iteration.
func (a *Article) SortedIds() []string {
	ids := make([]string, 0, len(a.Ids))
	for id := range a.Ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func keepString(a, b *string) *string {
	if a != nil {
		return a
	}
	return b
}

func keepInt(a, b *int) *int {
	if a != nil {
		return a
	}
	return b
}

func keepLongest(a, b string) string {
	if len(a) > len(b) {
		return a
	}
	return b
}

// Merge folds two Articles describing the same underlying work into a new
// canonical Article: ids, sources, and extra are unioned; the longer label
// wins; scalar fields keep the first non-absent value; list fields keep the
// first non-empty list.
func Merge(a, b *Article) *Article {
	merged := New()
	merged.Label = keepLongest(a.Label, b.Label)
	for id := range a.Ids {
		merged.Ids[id] = struct{}{}
	}
	for id := range b.Ids {
		merged.Ids[id] = struct{}{}
	}
	if len(a.Authors) > 0 {
		merged.Authors = a.Authors
	} else {
		merged.Authors = b.Authors
	}
	merged.Year = keepInt(a.Year, b.Year)
	merged.Title = keepString(a.Title, b.Title)
	merged.Journal = keepString(a.Journal, b.Journal)
	merged.Volume = keepString(a.Volume, b.Volume)
	merged.Issue = keepString(a.Issue, b.Issue)
	merged.Page = keepString(a.Page, b.Page)
	merged.DOI = keepString(a.DOI, b.DOI)
	merged.permalink = keepString(a.permalink, b.permalink)
	merged.TimesCited = keepInt(a.TimesCited, b.TimesCited)
	if len(a.References) > 0 {
		merged.References = a.References
	} else {
		merged.References = b.References
	}
	if len(a.Keywords) > 0 {
		merged.Keywords = a.Keywords
	} else {
		merged.Keywords = b.Keywords
	}
	for source := range a.Sources {
		merged.Sources[source] = struct{}{}
	}
	for source := range b.Sources {
		merged.Sources[source] = struct{}{}
	}
	for k, v := range a.Extra {
		merged.Extra[k] = v
	}
	for k, v := range b.Extra {
		merged.Extra[k] = v
	}
	return merged
}
