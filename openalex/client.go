// Package openalex fetches and enriches articles from the OpenAlex API.
package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bibx-go/bibx/internal/bibxerr"
)

const (
	baseURL = "https://api.openalex.org/works"

	// maxWorksPerPage is OpenAlex's page size ceiling for listing endpoints.
	maxWorksPerPage = 200

	// maxIDsPerRequest bounds the ids filter for ListArticlesByID so the
	// request URL stays under OpenAlex's length limit.
	maxIDsPerRequest = 80
)

// Author is the author half of a WorkAuthorship.
type Author struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	ORCID       string `json:"orcid"`
}

// WorkAuthorship is one entry of a Work's authorships list.
type WorkAuthorship struct {
	Author        Author `json:"author"`
	RawAuthorName string `json:"raw_author_name"`
}

// WorkKeyword is one entry of a Work's keywords list.
type WorkKeyword struct {
	Keyword     string  `json:"keyword"`
	DisplayName string  `json:"display_name"`
	Score       float64 `json:"score"`
}

// WorkBiblio carries the bibliographic locator fields of a Work.
type WorkBiblio struct {
	Volume    string `json:"volume"`
	Issue     string `json:"issue"`
	FirstPage string `json:"first_page"`
	LastPage  string `json:"last_page"`
}

// WorkLocationSource is the source (journal/venue) of a WorkLocation.
type WorkLocationSource struct {
	DisplayName string `json:"display_name"`
}

// WorkLocation is one entry of a Work's locations list.
type WorkLocation struct {
	Source WorkLocationSource `json:"source"`
}

// Work is an OpenAlex work record, trimmed to the fields this toolkit
// consumes. Every Work is decoded and mapped the same way whatever the
// enrichment mode; no field selection is sent with the request.
type Work struct {
	ID              string           `json:"id"`
	DOI             string           `json:"doi"`
	Title           string           `json:"title"`
	DisplayName     string           `json:"display_name"`
	PublicationYear int              `json:"publication_year"`
	CitedByCount    int              `json:"cited_by_count"`
	Authorships     []WorkAuthorship `json:"authorships"`
	Biblio          WorkBiblio       `json:"biblio"`
	Locations       []WorkLocation   `json:"locations"`
	PrimaryLocation WorkLocation     `json:"primary_location"`
	Keywords        []WorkKeyword    `json:"keywords"`
	ReferencedWorks []string         `json:"referenced_works"`
}

// ResponseMeta is the pagination envelope of a list response.
type ResponseMeta struct {
	Count   int    `json:"count"`
	PerPage int    `json:"per_page"`
	NextCursor string `json:"next_cursor"`
}

// WorkResponse is the top-level shape of every OpenAlex works list response.
type WorkResponse struct {
	Meta    ResponseMeta `json:"meta"`
	Results []Work       `json:"results"`
}

// Client is a minimal OpenAlex HTTP client.
type Client struct {
	httpClient *http.Client
	mailto     string
}

// NewClient returns a Client. mailto is sent as a query parameter per
// OpenAlex's polite-pool convention; it may be empty.
func NewClient(httpClient *http.Client, mailto string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient, mailto: mailto}
}

func (c *Client) get(ctx context.Context, params url.Values) (*WorkResponse, error) {
	if c.mailto != "" {
		params.Set("mailto", c.mailto)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, bibxerr.Wrap(bibxerr.RemoteError, err, "building OpenAlex request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, bibxerr.Wrap(bibxerr.RemoteError, err, "calling OpenAlex")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, bibxerr.New(bibxerr.RemoteError, "OpenAlex returned status %d", resp.StatusCode)
	}

	var out WorkResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, bibxerr.Wrap(bibxerr.RemoteError, err, "decoding OpenAlex response")
	}
	return &out, nil
}

// ListRecentArticles fetches every article matching query, newest first,
// paginating through the cursor-based listing endpoint.
func (c *Client) ListRecentArticles(ctx context.Context, query string, limit int) ([]Work, error) {
	filter := fmt.Sprintf("title_and_abstract.search:%s,type:types/article,cited_by_count:>1", query)
	cursor := "*"

	var works []Work
	for {
		params := url.Values{}
		params.Set("filter", filter)
		params.Set("sort", "publication_year:desc")
		params.Set("per-page", strconv.Itoa(maxWorksPerPage))
		params.Set("cursor", cursor)

		resp, err := c.get(ctx, params)
		if err != nil {
			return nil, err
		}
		works = append(works, resp.Results...)
		if limit > 0 && len(works) >= limit {
			return works[:limit], nil
		}
		if resp.Meta.NextCursor == "" || len(resp.Results) == 0 {
			break
		}
		cursor = resp.Meta.NextCursor
	}
	return works, nil
}

// ListArticlesByID fetches works by OpenAlex id, chunking the ids filter
// to stay within maxIDsPerRequest ids per request.
func (c *Client) ListArticlesByID(ctx context.Context, ids []string) ([]Work, error) {
	var works []Work
	for start := 0; start < len(ids); start += maxIDsPerRequest {
		end := start + maxIDsPerRequest
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]

		params := url.Values{}
		params.Set("filter", "openalex:"+strings.Join(chunk, "|"))
		params.Set("per-page", strconv.Itoa(maxWorksPerPage))

		resp, err := c.get(ctx, params)
		if err != nil {
			return nil, err
		}
		works = append(works, resp.Results...)
	}
	return works, nil
}
