package openalex

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/bibx-go/bibx/article"
	"github.com/bibx-go/bibx/helpers"
)

// Mode selects how many of a work's referenced_works get resolved into real
// reference Articles rather than id-only stubs, trading fidelity for request
// volume. It never changes how an individual Work maps onto an Article -
// only which referenced ids Build bothers to fetch.
type Mode int

const (
	Basic Mode = iota
	Common
	Most
	Full
)

// allRefs marks FULL in referenceBudget: every distinct referenced id is
// fetched, with no ranking cutoff.
const allRefs = -1

// referenceBudget caps how many distinct referenced ids a Builder fetches
// per run, ranked by how often they're cited across the seed set. BASIC
// fetches none.
var referenceBudget = map[Mode]int{
	Basic:  0,
	Common: 400,
	Most:   2000,
	Full:   allRefs,
}

// maxInFlight bounds concurrent OpenAlex requests issued while fetching
// missing reference works, so enrichment never floods the API.
const maxInFlight = 5

// Builder maps OpenAlex Works into Articles, fetching referenced works as
// needed for the requested Mode.
type Builder struct {
	client *Client
	mode   Mode
}

// NewBuilder returns a Builder bound to client, mapping at the given Mode.
func NewBuilder(client *Client, mode Mode) *Builder {
	return &Builder{client: client, mode: mode}
}

// Build converts a batch of Works into Articles. It collects every
// referenced_works id across works, selects the missing ids to fetch
// according to the Builder's Mode (ranked by reference frequency for COMMON
// and MOST, unranked for FULL, none for BASIC), fetches them concurrently
// (bounded to maxInFlight in-flight requests), and rewrites each article's
// references to cache entries where resolved, otherwise to id-only stubs.
func (b *Builder) Build(ctx context.Context, works []Work) ([]*article.Article, error) {
	articles := make([]*article.Article, len(works))
	cache := make(map[string]*article.Article, len(works))
	for i, w := range works {
		a := articleFromWork(w)
		articles[i] = a
		cache[openAlexID(w.ID)] = a
	}

	missing := missingReferenceIDs(works, cache, b.mode)
	if len(missing) > 0 {
		if err := b.fetchMissing(ctx, missing, cache); err != nil {
			return nil, err
		}
	}

	for i, w := range works {
		articles[i].References = resolveReferences(w, cache)
	}
	return articles, nil
}

// fetchMissing fetches every id in missing, chunked to maxIDsPerRequest ids
// per request and bounded to maxInFlight concurrent requests, adding each
// resolved work to cache.
func (b *Builder) fetchMissing(ctx context.Context, missing []string, cache map[string]*article.Article) error {
	var mu sync.Mutex

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(maxInFlight)

	for start := 0; start < len(missing); start += maxIDsPerRequest {
		end := start + maxIDsPerRequest
		if end > len(missing) {
			end = len(missing)
		}
		chunk := missing[start:end]
		group.Go(func() error {
			refWorks, err := b.client.ListArticlesByID(gctx, chunk)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			for _, rw := range refWorks {
				id := openAlexID(rw.ID)
				if _, ok := cache[id]; !ok {
					cache[id] = articleFromWork(rw)
				}
			}
			return nil
		})
	}
	return group.Wait()
}

// missingReferenceIDs collects every referenced_works id across works and
// returns the subset the Builder's Mode should fetch, minus ids already in
// cache (the seed set). COMMON and MOST rank ids by how many seed works cite
// them and keep only the top referenceBudget[mode]; FULL keeps every
// distinct id; BASIC fetches nothing.
func missingReferenceIDs(works []Work, cache map[string]*article.Article, mode Mode) []string {
	budget, ok := referenceBudget[mode]
	if !ok || budget == 0 {
		return nil
	}

	counts := map[string]int{}
	var ranked []string
	for _, w := range works {
		for _, raw := range w.ReferencedWorks {
			id := openAlexID(raw)
			if counts[id] == 0 {
				ranked = append(ranked, id)
			}
			counts[id]++
		}
	}
	if budget != allRefs {
		sort.SliceStable(ranked, func(i, j int) bool { return counts[ranked[i]] > counts[ranked[j]] })
		if len(ranked) > budget {
			ranked = ranked[:budget]
		}
	}

	var missing []string
	for _, id := range ranked {
		if _, ok := cache[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

// resolveReferences rewrites w's referenced_works into reference Articles: a
// cache hit becomes the shared canonical Article for that id, a cache miss
// becomes an id-only stub. Self-references are dropped.
func resolveReferences(w Work, cache map[string]*article.Article) []*article.Article {
	selfID := openAlexID(w.ID)
	var refs []*article.Article
	for _, raw := range w.ReferencedWorks {
		id := openAlexID(raw)
		if id == selfID {
			continue
		}
		if ref, ok := cache[id]; ok {
			refs = append(refs, ref)
			continue
		}
		refs = append(refs, stubArticle(raw))
	}
	return refs
}

// stubArticle is a placeholder reference Article for a referenced_works id
// that enrichment didn't resolve into a full record: id only, no other
// fields populated.
func stubArticle(rawRef string) *article.Article {
	a := article.New()
	a.AddID("openalex:" + openAlexID(rawRef))
	a.AddSource("openalex")
	a.SetPermalink(rawRef)
	return a
}

func articleFromWork(w Work) *article.Article {
	a := article.New()

	for _, authorship := range w.Authorships {
		name := authorship.RawAuthorName
		if name == "" {
			name = authorship.Author.DisplayName
		}
		if name == "" {
			continue
		}
		a.Authors = append(a.Authors, helpers.InvertDisplayName(name))
	}

	if w.PublicationYear != 0 {
		year := w.PublicationYear
		a.Year = &year
	}
	title := firstNonEmpty(w.Title, w.DisplayName)
	if title != "" {
		title = helpers.NormalizeText(title)
		a.Title = &title
	}
	if journal := w.PrimaryLocation.Source.DisplayName; journal != "" {
		journal = helpers.NormalizeText(journal)
		a.Journal = &journal
	} else if len(w.Locations) > 0 && w.Locations[0].Source.DisplayName != "" {
		journal := helpers.NormalizeText(w.Locations[0].Source.DisplayName)
		a.Journal = &journal
	}
	if w.Biblio.Volume != "" {
		a.Volume = &w.Biblio.Volume
	}
	if w.Biblio.Issue != "" {
		a.Issue = &w.Biblio.Issue
	}
	if page := buildPage(w.Biblio.FirstPage, w.Biblio.LastPage); page != "" {
		a.Page = &page
	}
	if w.DOI != "" {
		doi := strings.TrimPrefix(w.DOI, "https://doi.org/")
		a.DOI = &doi
		a.AddID("doi:" + doi)
	}
	timesCited := w.CitedByCount
	a.TimesCited = &timesCited

	if w.ID != "" {
		a.AddID("openalex:" + openAlexID(w.ID))
	}
	for _, kw := range w.Keywords {
		if kw.DisplayName != "" {
			a.Keywords = append(a.Keywords, kw.DisplayName)
		}
	}

	a.AddSource("openalex")
	a.SetPermalink(w.ID)
	a.AddSimpleID()
	a.SetSimpleLabel()

	return a
}

func openAlexID(id string) string {
	return strings.TrimPrefix(id, "https://openalex.org/")
}

func buildPage(first, last string) string {
	switch {
	case first != "" && last != "":
		return fmt.Sprintf("%s-%s", first, last)
	default:
		return first
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
