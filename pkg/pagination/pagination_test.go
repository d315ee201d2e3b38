package pagination

import "testing"

func TestNormalizeClampsInputs(t *testing.T) {
	p := Params{Page: -3, Size: 0}.Normalize()
	if p.Page != 0 {
		t.Fatalf("expected page 0 got %d", p.Page)
	}
	if p.Size != DefaultSize {
		t.Fatalf("expected default size got %d", p.Size)
	}

	p = Params{Page: 2, Size: 500}.Normalize()
	if p.Size != MaxSize {
		t.Fatalf("expected max size got %d", p.Size)
	}
}

func TestOffsetAndLimit(t *testing.T) {
	p := Params{Page: 3, Size: 25}
	if got := p.Offset(); got != 75 {
		t.Fatalf("expected offset 75 got %d", got)
	}
	if got := p.Limit(); got != 25 {
		t.Fatalf("expected limit 25 got %d", got)
	}
}

func TestNewPageComputesTotals(t *testing.T) {
	page := NewPage([]int{1, 2}, Params{Page: 0, Size: 2}, 5)
	if page.TotalPages != 3 {
		t.Fatalf("expected 3 pages got %d", page.TotalPages)
	}
	if page.TotalItems != 5 {
		t.Fatalf("expected 5 items got %d", page.TotalItems)
	}

	empty := NewPage[int](nil, Params{}, 0)
	if empty.Items == nil {
		t.Fatal("expected non-nil items slice")
	}
	if empty.TotalPages != 0 {
		t.Fatalf("expected 0 pages got %d", empty.TotalPages)
	}
}
