package mpsc

import (
	"context"
	"midistream/internal/global"
	"testing"
)

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		name  string
		start int
		want  int
	}{
		{"Zero rounds to one", 0, 1},
		{"One stays one", 1, 1},
		{"Two stays two", 2, 2},
		{"Three rounds up", 3, 4},
		{"Exact power stays", 8, 8},
		{"Just past power rounds up", 9, 16},
		{"Large value", 1000, 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nextPowerOfTwo(tt.start)
			if got != tt.want {
				t.Errorf("nextPowerOfTwo(%d) = %d, want %d", tt.start, got, tt.want)
			}
		})
	}
}

func TestPrevPowerOfTwo(t *testing.T) {
	tests := []struct {
		name  string
		start int
		want  int
	}{
		{"Zero stays zero", 0, 0},
		{"Exact power halves", 16, 8},
		{"Two halves to one", 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := prevPowerOfTwo(tt.start)
			if got != tt.want {
				t.Errorf("prevPowerOfTwo(%d) = %d, want %d", tt.start, got, tt.want)
			}
		})
	}
}

func TestScaleCapacity(t *testing.T) {
	tests := []struct {
		name          string
		capacity      uint64
		minCapacity   int
		maxCapacity   int
		fill          int
		wantWriteSize int
	}{
		{
			name:          "Full queue scales up",
			capacity:      4,
			minCapacity:   2,
			maxCapacity:   64,
			fill:          4,
			wantWriteSize: 8,
		},
		{
			name:          "Empty queue scales down",
			capacity:      16,
			minCapacity:   2,
			maxCapacity:   64,
			fill:          0,
			wantWriteSize: 8,
		},
		{
			name:          "Full queue at maximum stays",
			capacity:      4,
			minCapacity:   2,
			maxCapacity:   4,
			fill:          4,
			wantWriteSize: 4,
		},
		{
			name:          "Empty queue at minimum stays",
			capacity:      2,
			minCapacity:   2,
			maxCapacity:   64,
			fill:          0,
			wantWriteSize: 2,
		},
		{
			name:          "Moderate utilization stays",
			capacity:      8,
			minCapacity:   2,
			maxCapacity:   64,
			fill:          4,
			wantWriteSize: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()

			queue, err := New[int]([]string{global.NSTest}, tt.capacity, tt.minCapacity, tt.maxCapacity)
			if err != nil {
				t.Fatalf("expected no error in creating queue, but got '%v'", err)
			}

			for i := 0; i < tt.fill; i++ {
				queue.PushBlocking(ctx, i, 1)
			}

			queue.ScaleCapacity(ctx)

			gotSize := queue.ActiveWrite.Load().Size
			if gotSize != tt.wantWriteSize {
				t.Errorf("expected write capacity %d after scaling, got %d", tt.wantWriteSize, gotSize)
			}
		})
	}
}

// A scale-up mid-stream must not lose or reorder the backlog: the
// consumer drains the old instance completely before flipping to the
// new one.
func TestScaleCapacity_MigrationPreservesBacklog(t *testing.T) {
	ctx := context.Background()

	queue, err := New[int]([]string{global.NSTest}, 4, 2, 64)
	if err != nil {
		t.Fatalf("expected no error in creating queue, but got '%v'", err)
	}

	for i := 0; i < 4; i++ {
		queue.PushBlocking(ctx, i, 1)
	}

	queue.ScaleCapacity(ctx)
	if queue.ActiveWrite.Load().Size != 8 {
		t.Fatalf("expected write capacity 8 after scale-up, got %d", queue.ActiveWrite.Load().Size)
	}

	// New writes land on the scaled instance while the backlog still
	// sits on the draining one
	queue.PushBlocking(ctx, 4, 1)
	queue.PushBlocking(ctx, 5, 1)

	for want := 0; want < 6; want++ {
		got, ok := queue.Pop(ctx)
		if !ok {
			t.Fatalf("pop %d failed", want)
		}
		if got != want {
			t.Errorf("expected %d in arrival order, got %d", want, got)
		}
	}
}
