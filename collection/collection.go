// Package collection implements the Collection derived views and the
// identity-closure consolidator that merges articles gathered from
// heterogeneous sources.
package collection

import (
	"log/slog"
	"time"

	"github.com/bibx-go/bibx/article"
)

// Collection is a sequence of articles plus derived views.
type Collection struct {
	Articles []*article.Article
}

// New wraps a slice of articles in a Collection.
func New(articles []*article.Article) *Collection {
	return &Collection{Articles: articles}
}

// Merge merges two collections by deduplicating their combined articles.
func (c *Collection) Merge(other *Collection) *Collection {
	all := make([]*article.Article, 0, len(c.Articles)+len(other.Articles))
	all = append(all, c.Articles...)
	all = append(all, other.Articles...)
	return New(Deduplicate(all))
}

// CitationPair is an ordered (citer, cited) pair derived from references.
type CitationPair struct {
	Citer *article.Article
	Cited *article.Article
}

// CitationPairs yields (article, reference) for every reference of every
// article in the collection. Self-pairs are valid at this layer; the SAP
// cleanup removes them.
func (c *Collection) CitationPairs() []CitationPair {
	var pairs []CitationPair
	for _, a := range c.Articles {
		for _, ref := range a.References {
			pairs = append(pairs, CitationPair{Citer: a, Cited: ref})
		}
	}
	return pairs
}

func firstYear(articles []*article.Article) (int, bool) {
	var year int
	found := false
	for _, a := range articles {
		if a.Year == nil {
			continue
		}
		if !found || *a.Year < year {
			year = *a.Year
			found = true
		}
	}
	return year, found
}

// PublishedByYear returns publication counts keyed by year, zero-filled
// from the oldest known article's year through the current calendar year.
func (c *Collection) PublishedByYear() map[int]int {
	return c.PublishedByYearAt(time.Now().UTC().Year())
}

// PublishedByYearAt is PublishedByYear parameterized on "now", so callers
// can get deterministic output in tests.
func (c *Collection) PublishedByYearAt(currentYear int) map[int]int {
	start, ok := firstYear(c.Articles)
	years := map[int]int{}
	if ok {
		for y := start; y <= currentYear; y++ {
			years[y] = 0
		}
	}
	for _, a := range c.Articles {
		if a.Year == nil {
			continue
		}
		years[*a.Year]++
	}
	return years
}

// CitedByYear returns the sum of TimesCited keyed by publication year, with
// the same zero-filled range as PublishedByYear.
func (c *Collection) CitedByYear() map[int]int {
	return c.CitedByYearAt(time.Now().UTC().Year())
}

// CitedByYearAt is CitedByYear parameterized on "now".
func (c *Collection) CitedByYearAt(currentYear int) map[int]int {
	start, ok := firstYear(c.Articles)
	years := map[int]int{}
	if ok {
		for y := start; y <= currentYear; y++ {
			years[y] = 0
		}
	}
	for _, a := range c.Articles {
		if a.Year == nil || a.TimesCited == nil {
			continue
		}
		years[*a.Year] += *a.TimesCited
	}
	return years
}

// allArticles walks every top-level article and its direct references
// (one hop - the consolidator never follows references recursively a
// second time after merging) without repeating an object.
func allArticles(articles []*article.Article) []*article.Article {
	seen := map[*article.Article]struct{}{}
	var out []*article.Article
	visit := func(a *article.Article) {
		if _, ok := seen[a]; ok {
			return
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	for _, a := range articles {
		visit(a)
		for _, ref := range a.References {
			visit(ref)
		}
	}
	return out
}

// unionFind is a disjoint-set over identifier strings with path
// compression and union by rank, per the consolidator's design note: the
// identity graph is connected components of identifier co-occurrence.
type unionFind struct {
	parent map[string]string
	rank   map[string]int
}

func newUnionFind() *unionFind {
	return &unionFind{parent: map[string]string{}, rank: map[string]int{}}
}

func (u *unionFind) find(x string) string {
	if _, ok := u.parent[x]; !ok {
		u.parent[x] = x
		u.rank[x] = 0
		return x
	}
	root := x
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[x] != root {
		u.parent[x], x = root, u.parent[x]
	}
	return root
}

func (u *unionFind) union(a, b string) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	if u.rank[ra] < u.rank[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	if u.rank[ra] == u.rank[rb] {
		u.rank[ra]++
	}
}

// uniqueArticlesByID builds the identifier-equivalence closure over every
// article reachable from the input, and returns the canonical article for
// every id in every equivalence class.
func uniqueArticlesByID(articles []*article.Article) map[string]*article.Article {
	uf := newUnionFind()
	idToArticles := map[string][]*article.Article{}

	for _, a := range allArticles(articles) {
		ids := a.SortedIds()
		if len(ids) == 0 {
			continue
		}
		first := ids[0]
		uf.find(first) // self-loop, ensures singleton components survive
		idToArticles[first] = append(idToArticles[first], a)
		for _, id := range ids[1:] {
			uf.union(first, id)
			idToArticles[id] = append(idToArticles[id], a)
		}
	}

	components := map[string][]string{}
	for id := range idToArticles {
		root := uf.find(id)
		components[root] = append(components[root], id)
	}

	biggest, smallest := 0, -1
	articleByID := map[string]*article.Article{}
	for _, ids := range components {
		visited := map[*article.Article]struct{}{}
		var members []*article.Article
		for _, id := range ids {
			for _, a := range idToArticles[id] {
				if _, ok := visited[a]; ok {
					continue
				}
				visited[a] = struct{}{}
				members = append(members, a)
			}
		}
		if len(members) > biggest {
			biggest = len(members)
		}
		if smallest == -1 || len(members) < smallest {
			smallest = len(members)
		}
		merged := members[0]
		for _, next := range members[1:] {
			merged = article.Merge(merged, next)
		}
		for _, id := range ids {
			articleByID[id] = merged
		}
	}

	slog.Debug("consolidated articles", "components", len(components), "biggest", biggest, "smallest", smallest)
	return articleByID
}

// Deduplicate merges a list of articles by identifier-equivalence closure
// and rewires their references to the canonical instances. Idempotent and
// order-preserving for the first appearance of each equivalence class.
func Deduplicate(articles []*article.Article) []*article.Article {
	articleByID := uniqueArticlesByID(articles)

	var unique []*article.Article
	seen := map[*article.Article]struct{}{}
	for _, a := range articles {
		ids := a.SortedIds()
		if len(ids) == 0 {
			continue
		}
		canonical := articleByID[ids[0]]
		if _, ok := seen[canonical]; ok {
			continue
		}
		seen[canonical] = struct{}{}
		unique = append(unique, canonical)
	}

	for _, a := range unique {
		newRefs := make([]*article.Article, 0, len(a.References))
		for _, ref := range a.References {
			ids := ref.SortedIds()
			if len(ids) == 0 {
				newRefs = append(newRefs, ref)
				continue
			}
			if canonical, ok := articleByID[ids[0]]; ok {
				newRefs = append(newRefs, canonical)
			} else {
				newRefs = append(newRefs, ref)
			}
		}
		a.References = newRefs
	}

	return unique
}
