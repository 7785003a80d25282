package helpers

import "testing"

func TestCalculateOffsetLimit(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		wantOffset uint64
		wantLimit  int
	}{
		{"first page", 1, 10, 0, 10},
		{"third page", 3, 20, 40, 20},
		{"invalid page defaults to first", 0, 10, 0, 10},
		{"oversized limit clamped", 1, 500, 0, DefaultPageSize},
		{"zero size clamped", 2, 0, 10, DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := CalculateOffsetLimit(tt.page, tt.size)
			if offset != tt.wantOffset || limit != tt.wantLimit {
				t.Errorf("CalculateOffsetLimit(%d, %d) = (%d, %d), want (%d, %d)",
					tt.page, tt.size, offset, limit, tt.wantOffset, tt.wantLimit)
			}
		})
	}
}

func TestNewPaginationInfo(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		page, size int
		wantPages  int
		wantNext   bool
	}{
		{"exact fit has no next", 20, 2, 10, 2, false},
		{"partial last page", 25, 2, 10, 3, true},
		{"middle page has next", 100, 3, 10, 10, true},
		{"empty result", 0, 1, 10, 1, false},
		{"single item", 1, 1, 10, 1, false},
		{"boundary page*size equals total", 30, 3, 10, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPaginationInfo(tt.total, tt.page, tt.size)
			if info.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", info.TotalPages, tt.wantPages)
			}
			if info.HasNext != tt.wantNext {
				t.Errorf("HasNext = %v, want %v", info.HasNext, tt.wantNext)
			}
			// the invariant the API promises callers
			wantNext := int64(tt.page)*int64(tt.size) < tt.total
			if info.HasNext != wantNext {
				t.Errorf("HasNext = %v, violates page*size < total", info.HasNext)
			}
		})
	}
}
