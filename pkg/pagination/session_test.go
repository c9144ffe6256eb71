package pagination

import (
	"errors"
	"testing"
)

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"plain", "starcraft", "starcraft", false},
		{"surrounding whitespace", "  star craft \t", "star craft", false},
		{"special characters kept", "a&b=c?", "a&b=c?", false},
		{"empty", "", "", true},
		{"only whitespace", " \n\t ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeQuery(tt.raw)
			if tt.wantErr {
				if !errors.Is(err, ErrEmptyQuery) {
					t.Fatalf("NormalizeQuery(%q) error = %v, want ErrEmptyQuery", tt.raw, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeQuery(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeQuery(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total    int
		pageSize int
		want     int
	}{
		{0, 10, 1},
		{-5, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{93, 10, 10},
		{100, 10, 10},
		{5, 0, 1},
	}

	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.pageSize); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.total, tt.pageSize, got, tt.want)
		}
	}
}

func TestSession_Offset(t *testing.T) {
	s := newSession[int]("q", 10)

	if got := s.Offset(1); got != 0 {
		t.Errorf("Offset(1) = %d, want 0", got)
	}
	if got := s.Offset(4); got != 30 {
		t.Errorf("Offset(4) = %d, want 30", got)
	}
}

func TestSession_NewSessionDefaults(t *testing.T) {
	s := newSession[int]("q", 10)

	if s.CurrentPage != 1 || s.TotalPages != 1 {
		t.Errorf("new session page = %d/%d, want 1/1", s.CurrentPage, s.TotalPages)
	}
	if s.Resolved {
		t.Error("new session should not be resolved")
	}
	if s.pages.Len() != 0 {
		t.Errorf("new session cache has %d pages, want 0", s.pages.Len())
	}

	other := newSession[int]("q", 10)
	if s.ID == other.ID {
		t.Error("sessions should get distinct IDs")
	}
}

func TestSession_Clamp(t *testing.T) {
	s := newSession[int]("q", 10)
	s.resolve(45)

	tests := []struct {
		in   int
		want int
	}{
		{0, 1},
		{-3, 1},
		{1, 1},
		{3, 3},
		{5, 5},
		{6, 5},
	}
	for _, tt := range tests {
		if got := s.clamp(tt.in); got != tt.want {
			t.Errorf("clamp(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSession_Resolve_FirstTotalWins(t *testing.T) {
	s := newSession[int]("q", 10)

	s.resolve(93)
	if s.TotalResults != 93 || s.TotalPages != 10 {
		t.Fatalf("after first resolve = %d results / %d pages, want 93 / 10", s.TotalResults, s.TotalPages)
	}

	s.resolve(250)
	if s.TotalResults != 93 || s.TotalPages != 10 {
		t.Errorf("later totals must be ignored, got %d results / %d pages", s.TotalResults, s.TotalPages)
	}
}

func TestSession_Resolve_NegativeTotal(t *testing.T) {
	s := newSession[int]("q", 10)
	s.resolve(-1)

	if s.TotalResults != 0 || s.TotalPages != 1 {
		t.Errorf("resolve(-1) = %d results / %d pages, want 0 / 1", s.TotalResults, s.TotalPages)
	}
}

func TestBoundaryFor(t *testing.T) {
	tests := []struct {
		current, total int
		want           Boundary
	}{
		{1, 1, BoundaryBoth},
		{1, 5, BoundaryFirst},
		{3, 5, BoundaryNone},
		{5, 5, BoundaryLast},
	}

	for _, tt := range tests {
		if got := boundaryFor(tt.current, tt.total); got != tt.want {
			t.Errorf("boundaryFor(%d, %d) = %q, want %q", tt.current, tt.total, got, tt.want)
		}
	}
}

func TestBoundary_Flags(t *testing.T) {
	tests := []struct {
		b       Boundary
		atFirst bool
		atLast  bool
	}{
		{BoundaryFirst, true, false},
		{BoundaryLast, false, true},
		{BoundaryNone, false, false},
		{BoundaryBoth, true, true},
	}

	for _, tt := range tests {
		if tt.b.AtFirst() != tt.atFirst {
			t.Errorf("%q.AtFirst() = %v, want %v", tt.b, tt.b.AtFirst(), tt.atFirst)
		}
		if tt.b.AtLast() != tt.atLast {
			t.Errorf("%q.AtLast() = %v, want %v", tt.b, tt.b.AtLast(), tt.atLast)
		}
	}
}
