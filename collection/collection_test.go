package collection

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bibx-go/bibx/article"
)

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }

func newArticle(ids []string, year int, authors ...string) *article.Article {
	a := article.New()
	for _, id := range ids {
		a.AddID(id)
	}
	a.Year = intp(year)
	a.Authors = authors
	return a
}

func TestDeduplicateMergesSharedIdentifiers(t *testing.T) {
	a := newArticle([]string{"wos:1", "doi:10.1/x"}, 2001, "Smith, John")
	a.Journal = strp("Nature")
	b := newArticle([]string{"doi:10.1/x", "simple:smith2001"}, 2001, "Smith, John")
	b.Volume = strp("12")

	got := Deduplicate([]*article.Article{a, b})

	if len(got) != 1 {
		t.Fatalf("Deduplicate() returned %d articles, want 1", len(got))
	}
	merged := got[0]
	if merged.Journal == nil || *merged.Journal != "Nature" {
		t.Errorf("Journal = %v, want Nature", merged.Journal)
	}
	if merged.Volume == nil || *merged.Volume != "12" {
		t.Errorf("Volume = %v, want 12", merged.Volume)
	}
	wantIds := map[string]struct{}{"wos:1": {}, "doi:10.1/x": {}, "simple:smith2001": {}}
	if diff := cmp.Diff(wantIds, merged.Ids); diff != "" {
		t.Errorf("Ids mismatch (-want +got):\n%s", diff)
	}
}

func TestDeduplicateKeepsDisjointArticlesSeparate(t *testing.T) {
	a := newArticle([]string{"wos:1"}, 2001, "Smith, John")
	b := newArticle([]string{"wos:2"}, 2002, "Jones, Mary")

	got := Deduplicate([]*article.Article{a, b})
	if len(got) != 2 {
		t.Fatalf("Deduplicate() returned %d articles, want 2", len(got))
	}
}

func TestDeduplicateIsIdempotent(t *testing.T) {
	a := newArticle([]string{"wos:1", "doi:10.1/x"}, 2001, "Smith, John")
	b := newArticle([]string{"doi:10.1/x"}, 2001, "Smith, John")

	once := Deduplicate([]*article.Article{a, b})
	twice := Deduplicate(once)

	if len(once) != len(twice) {
		t.Fatalf("Deduplicate() not idempotent: %d then %d articles", len(once), len(twice))
	}
}

func TestDeduplicateRewiresReferences(t *testing.T) {
	citer := newArticle([]string{"wos:1"}, 2005, "Lee, Ann")
	refA := newArticle([]string{"wos:2"}, 2001, "Smith, John")
	refB := newArticle([]string{"wos:2", "doi:10.1/dup"}, 2001, "Smith, John")
	citer.References = []*article.Article{refA}

	got := Deduplicate([]*article.Article{citer, refB})

	var rewiredCiter *article.Article
	for _, a := range got {
		if _, ok := a.Ids["wos:1"]; ok {
			rewiredCiter = a
		}
	}
	if rewiredCiter == nil {
		t.Fatal("citer not found in deduplicated output")
	}
	if len(rewiredCiter.References) != 1 {
		t.Fatalf("References has %d entries, want 1", len(rewiredCiter.References))
	}
	if _, ok := rewiredCiter.References[0].Ids["doi:10.1/dup"]; !ok {
		t.Errorf("reference not rewired to canonical merged article")
	}
}

func TestCitationPairs(t *testing.T) {
	cited := newArticle([]string{"wos:2"}, 2001, "Smith, John")
	citer := newArticle([]string{"wos:1"}, 2005, "Lee, Ann")
	citer.References = []*article.Article{cited}

	c := New([]*article.Article{citer})
	pairs := c.CitationPairs()

	if len(pairs) != 1 {
		t.Fatalf("CitationPairs() returned %d pairs, want 1", len(pairs))
	}
	if pairs[0].Citer != citer || pairs[0].Cited != cited {
		t.Errorf("CitationPairs() = %+v, want {Citer: citer, Cited: cited}", pairs[0])
	}
}

func TestPublishedByYearAtZeroFillsRange(t *testing.T) {
	a := newArticle([]string{"wos:1"}, 2001, "Smith, John")
	b := newArticle([]string{"wos:2"}, 2003, "Jones, Mary")

	c := New([]*article.Article{a, b})
	got := c.PublishedByYearAt(2003)

	want := map[int]int{2001: 1, 2002: 0, 2003: 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PublishedByYearAt() mismatch (-want +got):\n%s", diff)
	}
}

func TestCitedByYearAtSumsTimesCited(t *testing.T) {
	a := newArticle([]string{"wos:1"}, 2001, "Smith, John")
	a.TimesCited = intp(5)
	b := newArticle([]string{"wos:2"}, 2001, "Jones, Mary")
	b.TimesCited = intp(3)

	c := New([]*article.Article{a, b})
	got := c.CitedByYearAt(2001)

	want := map[int]int{2001: 8}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CitedByYearAt() mismatch (-want +got):\n%s", diff)
	}
}

func TestPublishedByYearAtEmptyCollection(t *testing.T) {
	c := New(nil)
	got := c.PublishedByYearAt(2020)
	if len(got) != 0 {
		t.Errorf("PublishedByYearAt() = %v, want empty map", got)
	}
}
