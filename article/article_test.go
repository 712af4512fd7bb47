package article

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }

func TestSimpleID(t *testing.T) {
	tests := []struct {
		name string
		a    *Article
		want *string
	}{
		{
			name: "authors and year known",
			a:    &Article{Authors: []string{"Smith, John"}, Year: intp(2001)},
			want: strp("smith2001"),
		},
		{
			name: "no comma in author name",
			a:    &Article{Authors: []string{"Smith"}, Year: intp(2001)},
			want: strp("smith2001"),
		},
		{
			name: "missing year",
			a:    &Article{Authors: []string{"Smith, John"}},
			want: nil,
		},
		{
			name: "missing authors",
			a:    &Article{Year: intp(2001)},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.SimpleID()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SimpleID() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSimpleLabel(t *testing.T) {
	a := &Article{
		Authors: []string{"Smith, John"},
		Year:    intp(2001),
		Journal: strp("Nature"),
		Volume:  strp("12"),
		Page:    strp("100-110"),
		DOI:     strp("10.1000/xyz"),
	}
	want := "Smith John, 2001, Nature, V12, P100-110, DOI 10.1000/xyz"
	got := a.SimpleLabel()
	if got == nil || *got != want {
		t.Errorf("SimpleLabel() = %v, want %q", got, want)
	}
}

func TestSimpleLabelEmpty(t *testing.T) {
	a := New()
	if got := a.SimpleLabel(); got != nil {
		t.Errorf("SimpleLabel() = %v, want nil", *got)
	}
}

func TestPermalinkFallsBackToDOI(t *testing.T) {
	a := New()
	a.DOI = strp("10.1000/xyz")
	got := a.Permalink()
	want := "https://doi.org/10.1000/xyz"
	if got == nil || *got != want {
		t.Errorf("Permalink() = %v, want %q", got, want)
	}
}

func TestPermalinkExplicitOverridesDOI(t *testing.T) {
	a := New()
	a.DOI = strp("10.1000/xyz")
	a.SetPermalink("https://example.com/explicit")
	got := a.Permalink()
	if got == nil || *got != "https://example.com/explicit" {
		t.Errorf("Permalink() = %v, want explicit link", got)
	}
}

func TestMergeKeepsFirstNonAbsentScalars(t *testing.T) {
	a := New()
	a.AddID("wos:1")
	a.Year = intp(2001)

	b := New()
	b.AddID("doi:10.1/x")
	b.Year = intp(1999)
	b.Journal = strp("Nature")

	merged := Merge(a, b)

	if merged.Year == nil || *merged.Year != 2001 {
		t.Errorf("Year = %v, want 2001 (kept from a)", merged.Year)
	}
	if merged.Journal == nil || *merged.Journal != "Nature" {
		t.Errorf("Journal = %v, want Nature (filled from b)", merged.Journal)
	}
	wantIds := map[string]struct{}{"wos:1": {}, "doi:10.1/x": {}}
	if diff := cmp.Diff(wantIds, merged.Ids); diff != "" {
		t.Errorf("Ids mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeKeepsLongestLabel(t *testing.T) {
	a := New()
	a.Label = "Short"
	b := New()
	b.Label = "A Much Longer Label"

	merged := Merge(a, b)
	if merged.Label != "A Much Longer Label" {
		t.Errorf("Label = %q, want longer label kept", merged.Label)
	}
}

func TestMergeUnionsSourcesAndExtra(t *testing.T) {
	a := New()
	a.AddSource("wos")
	a.Extra["tc"] = 5

	b := New()
	b.AddSource("scopus")
	b.Extra["so"] = "Nature"

	merged := Merge(a, b)

	wantSources := map[string]struct{}{"wos": {}, "scopus": {}}
	if diff := cmp.Diff(wantSources, merged.Sources); diff != "" {
		t.Errorf("Sources mismatch (-want +got):\n%s", diff)
	}
	wantExtra := map[string]any{"tc": 5, "so": "Nature"}
	if diff := cmp.Diff(wantExtra, merged.Extra); diff != "" {
		t.Errorf("Extra mismatch (-want +got):\n%s", diff)
	}
}

func TestSortedIdsIsDeterministic(t *testing.T) {
	a := New()
	a.AddID("wos:2")
	a.AddID("doi:10.1/a")
	a.AddID("simple:smith2001")

	got := a.SortedIds()
	want := []string{"doi:10.1/a", "simple:smith2001", "wos:2"}
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("SortedIds() mismatch (-want +got):\n%s", diff)
	}
}

func TestKeyIsSmallestID(t *testing.T) {
	a := New()
	a.AddID("wos:2")
	a.AddID("doi:10.1/a")
	if got := a.Key(); got != "doi:10.1/a" {
		t.Errorf("Key() = %q, want %q", got, "doi:10.1/a")
	}
}
