package common

import "testing"

func TestBaseParamsNormalize(t *testing.T) {
	p := BaseParams{}
	p.Normalize()
	if p.Page != 1 || p.PageSize != DefaultPageSize {
		t.Fatalf("unexpected defaults: %+v", p)
	}
	if p.Offset() != 0 {
		t.Fatalf("expected zero offset, got %d", p.Offset())
	}

	p = BaseParams{Page: 3, PageSize: 500}
	p.Normalize()
	if p.PageSize != MaxPageSize {
		t.Fatalf("expected page size clamp to %d, got %d", MaxPageSize, p.PageSize)
	}
	if p.Offset() != 200 {
		t.Fatalf("expected offset 200, got %d", p.Offset())
	}
}
