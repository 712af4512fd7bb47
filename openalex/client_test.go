package openalex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	client := NewClient(srv.Client(), "")
	return overrideBaseURLForTest(t, client, srv.URL), srv.Close
}

// overrideBaseURLForTest points the package-level baseURL const's effective
// request target at the test server by wrapping the client's http.Client
// with a RoundTripper that rewrites the request URL's host.
func overrideBaseURLForTest(t *testing.T, client *Client, serverURL string) *Client {
	t.Helper()
	target, err := url.Parse(serverURL)
	if err != nil {
		t.Fatalf("parsing test server URL: %v", err)
	}
	client.httpClient = &http.Client{
		Transport: rewriteHostTransport{target: target, base: http.DefaultTransport},
	}
	return client
}

type rewriteHostTransport struct {
	target *url.URL
	base   http.RoundTripper
}

func (rt rewriteHostTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = rt.target.Scheme
	req.URL.Host = rt.target.Host
	return rt.base.RoundTrip(req)
}

func TestListRecentArticlesPaginatesByCursor(t *testing.T) {
	pages := 0
	client, closeFn := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		pages++
		cursor := r.URL.Query().Get("cursor")
		var resp WorkResponse
		if cursor == "*" {
			resp = WorkResponse{
				Meta:    ResponseMeta{NextCursor: "page2"},
				Results: []Work{{ID: "https://openalex.org/W1", Title: "First"}},
			}
		} else {
			resp = WorkResponse{
				Meta:    ResponseMeta{NextCursor: ""},
				Results: []Work{{ID: "https://openalex.org/W2", Title: "Second"}},
			}
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
	defer closeFn()

	works, err := client.ListRecentArticles(context.Background(), "graphs", 0)
	if err != nil {
		t.Fatalf("ListRecentArticles() error = %v", err)
	}
	if len(works) != 2 {
		t.Fatalf("ListRecentArticles() returned %d works, want 2", len(works))
	}
	if pages != 2 {
		t.Errorf("server received %d requests, want 2", pages)
	}
}

func TestListRecentArticlesRespectsLimit(t *testing.T) {
	client, closeFn := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		resp := WorkResponse{
			Meta: ResponseMeta{NextCursor: "more"},
			Results: []Work{
				{ID: "https://openalex.org/W1"},
				{ID: "https://openalex.org/W2"},
				{ID: "https://openalex.org/W3"},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})
	defer closeFn()

	works, err := client.ListRecentArticles(context.Background(), "graphs", 2)
	if err != nil {
		t.Fatalf("ListRecentArticles() error = %v", err)
	}
	if len(works) != 2 {
		t.Fatalf("ListRecentArticles() returned %d works, want 2", len(works))
	}
}

func TestListArticlesByIDChunksRequests(t *testing.T) {
	var filters []string
	client, closeFn := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		filters = append(filters, r.URL.Query().Get("filter"))
		_ = json.NewEncoder(w).Encode(WorkResponse{Results: []Work{{ID: "https://openalex.org/W1"}}})
	})
	defer closeFn()

	ids := make([]string, maxIDsPerRequest+5)
	for i := range ids {
		ids[i] = "W" + string(rune('a'+i%26))
	}

	_, err := client.ListArticlesByID(context.Background(), ids)
	if err != nil {
		t.Fatalf("ListArticlesByID() error = %v", err)
	}
	if len(filters) != 2 {
		t.Fatalf("server received %d requests, want 2 (chunked)", len(filters))
	}
	if !strings.HasPrefix(filters[0], "openalex:") {
		t.Errorf("filter[0] = %q, want openalex: prefix", filters[0])
	}
}

func TestGetWrapsNonOKStatus(t *testing.T) {
	client, closeFn := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer closeFn()

	_, err := client.ListRecentArticles(context.Background(), "graphs", 10)
	if err == nil {
		t.Fatal("ListRecentArticles() error = nil, want non-nil on 500 response")
	}
}
