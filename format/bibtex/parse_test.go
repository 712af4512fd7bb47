package bibtex

import "testing"

const sampleEntry = `
@article{smith2020study,
  author={Smith, John and Doe, Alice},
  title={A study of citation graphs},
  journal={Journal of Graph Studies},
  volume={12},
  number={3},
  pages={100--110},
  year={2020},
  doi={10.1000/example},
  note={Cited By: 5},
  references={Smith J. (2015) J Graph Stud, 10.1000/ref1; Doe A. (2016) J Graph Stud}
}
`

func TestParseEntry(t *testing.T) {
	articles, err := Parse(sampleEntry)
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
	if a.Page == nil || *a.Page != "100-110" {
		t.Errorf("Page = %v", a.Page)
	}
	if a.DOI == nil || *a.DOI != "10.1000/example" {
		t.Errorf("DOI = %v", a.DOI)
	}
	if a.TimesCited == nil || *a.TimesCited != 5 {
		t.Errorf("TimesCited = %v, want 5", a.TimesCited)
	}
	if len(a.References) != 2 {
		t.Fatalf("len(References) = %d, want 2", len(a.References))
	}
	if a.References[0].DOI == nil || *a.References[0].DOI != "10.1000/ref1" {
		t.Errorf("References[0].DOI = %v", a.References[0].DOI)
	}
}

func TestParseDropsEntryMissingAuthor(t *testing.T) {
	const entry = `
@article{key,
  title={No author here},
  year={2020}
}
`
	articles, err := Parse(entry)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(articles) != 0 {
		t.Fatalf("len(articles) = %d, want 0", len(articles))
	}
}
