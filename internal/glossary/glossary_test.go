package glossary

import "testing"

func mustLoad(t *testing.T) *Index {
	t.Helper()
	ix, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return ix
}

func TestLoadDataset(t *testing.T) {
	ix := mustLoad(t)
	if len(ix.All()) < 15 {
		t.Fatalf("terms = %d, dataset looks truncated", len(ix.All()))
	}
	if _, ok := ix.Get("wafer"); !ok {
		t.Error("wafer term missing")
	}
}

func TestSearchByQuery(t *testing.T) {
	ix := mustLoad(t)

	results := ix.Search("wafer", "")
	if len(results) == 0 {
		t.Fatal("no results for wafer")
	}
	for _, r := range results {
		t.Logf("match: %s", r.ID)
	}

	if got := ix.Search("zzzznotaterm", ""); len(got) != 0 {
		t.Errorf("unexpected matches: %v", got)
	}
}

func TestSearchCaseInsensitive(t *testing.T) {
	ix := mustLoad(t)
	lower := ix.Search("foup", "")
	upper := ix.Search("FOUP", "")
	if len(lower) == 0 || len(lower) != len(upper) {
		t.Errorf("case sensitivity: lower=%d upper=%d", len(lower), len(upper))
	}
}

func TestSearchCategoryFilter(t *testing.T) {
	ix := mustLoad(t)
	results := ix.Search("", "lithography")
	if len(results) == 0 {
		t.Fatal("no lithography terms")
	}
	for _, r := range results {
		if r.Category != "lithography" {
			t.Errorf("term %s has category %q", r.ID, r.Category)
		}
	}
}

func TestCategoriesSortedDistinct(t *testing.T) {
	ix := mustLoad(t)
	cats := ix.Categories()
	if len(cats) < 3 {
		t.Fatalf("categories = %v", cats)
	}
	for i := 1; i < len(cats); i++ {
		if cats[i-1] >= cats[i] {
			t.Errorf("categories not sorted/distinct at %d: %v", i, cats)
		}
	}
}

func TestRelatedSkipsDangling(t *testing.T) {
	ix := mustLoad(t)
	related := ix.Related("wafer")
	if len(related) == 0 {
		t.Fatal("wafer has no related terms")
	}
	for _, r := range related {
		if _, ok := ix.Get(r.ID); !ok {
			t.Errorf("related term %s not resolvable", r.ID)
		}
	}
	if got := ix.Related("no-such-term"); got != nil {
		t.Errorf("Related(unknown) = %v, want nil", got)
	}
}
