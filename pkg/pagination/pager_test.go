package pagination

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPageCount(t *testing.T) {
	tests := []struct {
		total    int
		pageSize int
		want     int
	}{
		{0, 20, 0},
		{-3, 20, 0},
		{1, 20, 1},
		{19, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{25, 20, 2},
		{40, 20, 2},
		{41, 20, 3},
		{25, 0, 2}, // falls back to DefaultPageSize
		{7, 3, 3},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.total, tt.pageSize), func(t *testing.T) {
			if got := PageCount(tt.total, tt.pageSize); got != tt.want {
				t.Errorf("PageCount(%d, %d) = %d, want %d", tt.total, tt.pageSize, got, tt.want)
			}
		})
	}
}

func TestTotal(t *testing.T) {
	if got := Total(5, 20); got != 25 {
		t.Errorf("Total(5, 20) = %d, want 25", got)
	}
	if got := Total(-1, 3); got != 3 {
		t.Errorf("Total(-1, 3) = %d, want 3", got)
	}
}

func TestWalk_Order(t *testing.T) {
	var seen []int
	err := Walk(context.Background(), 4, func(_ context.Context, page int) error {
		seen = append(seen, page)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if diff := cmp.Diff([]int{1, 2, 3, 4}, seen); diff != "" {
		t.Errorf("pages mismatch (-want +got):\n%s", diff)
	}
}

func TestWalk_ZeroPages(t *testing.T) {
	calls := 0
	err := Walk(context.Background(), 0, func(context.Context, int) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

func TestWalk_StopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := Walk(context.Background(), 5, func(_ context.Context, page int) error {
		calls++
		if page == 2 {
			return boom
		}
		return nil
	})

	if !errors.Is(err, boom) {
		t.Fatalf("Walk() error = %v, want boom", err)
	}
	var pageErr *PageError
	if !errors.As(err, &pageErr) || pageErr.Page != 2 {
		t.Errorf("expected PageError for page 2, got %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestWalk_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Walk(ctx, 3, func(context.Context, int) error {
		calls++
		cancel()
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Walk() error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestCollect(t *testing.T) {
	var progress []int
	rows, err := Collect(context.Background(), 3,
		func(_ context.Context, page int) ([]string, error) {
			return []string{fmt.Sprintf("p%d-a", page), fmt.Sprintf("p%d-b", page)}, nil
		},
		func(page, n int) {
			progress = append(progress, page*10+n)
		})
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	want := []string{"p1-a", "p1-b", "p2-a", "p2-b", "p3-a", "p3-b"}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{12, 22, 32}, progress); diff != "" {
		t.Errorf("progress mismatch (-want +got):\n%s", diff)
	}
}

func TestCollect_Error(t *testing.T) {
	rows, err := Collect(context.Background(), 2,
		func(_ context.Context, page int) ([]int, error) {
			if page == 2 {
				return nil, errors.New("bad page")
			}
			return []int{1}, nil
		}, nil)
	if err == nil {
		t.Fatal("Collect() expected error")
	}
	if rows != nil {
		t.Errorf("rows = %v, want nil on error", rows)
	}
}
