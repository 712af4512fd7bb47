package ris

import "testing"

const sampleRecord = `TY  - JOUR
AU  - Smith, J.
AU  - Doe, A.
PY  - 2020
TI  - A study of citation graphs
T2  - Journal of Graph Studies
VL  - 12
IS  - 3
SP  - 100
EP  - 110
DO  - 10.1000/example
N1  - Cited By: 5
N1  - References
Smith J. (2015) J Graph Stud, 1, pp. 1-10, 10.1000/ref1
Doe A. (2016) J Graph Stud
Malformed entry with no year
KW  - graphs
KW  - citation analysis
ER  -
`

func TestParseRecord(t *testing.T) {
	articles, err := Parse(sampleRecord)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("len(articles) = %d, want 1", len(articles))
	}

	a := articles[0]
	if len(a.Authors) != 2 {
		t.Errorf("Authors = %v", a.Authors)
	}
	if a.Year == nil || *a.Year != 2020 {
		t.Errorf("Year = %v, want 2020", a.Year)
	}
	if a.Journal == nil || *a.Journal != "Journal of Graph Studies" {
		t.Errorf("Journal = %v", a.Journal)
	}
	if a.Page == nil || *a.Page != "100-110" {
		t.Errorf("Page = %v", a.Page)
	}
	if a.DOI == nil || *a.DOI != "10.1000/example" {
		t.Errorf("DOI = %v", a.DOI)
	}
	if a.TimesCited == nil || *a.TimesCited != 5 {
		t.Errorf("TimesCited = %v, want 5", a.TimesCited)
	}
	if len(a.Keywords) != 2 {
		t.Errorf("Keywords = %v", a.Keywords)
	}
	if len(a.References) != 2 {
		t.Fatalf("len(References) = %d, want 2", len(a.References))
	}
	if a.References[0].Volume == nil || *a.References[0].Volume != "1" {
		t.Errorf("References[0].Volume = %v", a.References[0].Volume)
	}
	if a.References[0].DOI == nil || *a.References[0].DOI != "10.1000/ref1" {
		t.Errorf("References[0].DOI = %v", a.References[0].DOI)
	}
}

func TestParseDropsRecordMissingYear(t *testing.T) {
	const record = `TY  - JOUR
AU  - Smith, J.
TI  - No year here
ER  -
`
	articles, err := Parse(record)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(articles) != 0 {
		t.Fatalf("len(articles) = %d, want 0", len(articles))
	}
}
