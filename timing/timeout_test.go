package timing

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithTimeout(t *testing.T) {
	errAction := errors.New("action failed")

	tests := []struct {
		name    string
		fn      func(context.Context) (int, error)
		want    int
		wantErr error
	}{
		{
			name: "action wins",
			fn:   func(context.Context) (int, error) { return 42, nil },
			want: 42,
		},
		{
			name:    "action fails first",
			fn:      func(context.Context) (int, error) { return 0, errAction },
			wantErr: errAction,
		},
		{
			name: "timer wins",
			fn: func(context.Context) (int, error) {
				time.Sleep(500 * time.Millisecond)
				return 1, nil
			},
			wantErr: ErrTimeout,
		},
		{
			name:    "panic becomes error",
			fn:      func(context.Context) (int, error) { panic("boom") },
			wantErr: errors.New("any"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WithTimeout(context.Background(), 50*time.Millisecond, tt.fn)
			switch {
			case tt.wantErr == nil && err != nil:
				t.Fatalf("WithTimeout() error = %v", err)
			case tt.wantErr != nil && err == nil:
				t.Fatalf("WithTimeout() error = nil, want %v", tt.wantErr)
			case tt.wantErr == ErrTimeout || tt.wantErr == errAction:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("WithTimeout() error = %v, want %v", err, tt.wantErr)
				}
			}
			if got != tt.want {
				t.Errorf("WithTimeout() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWithTimeoutDistinctFromDeadline(t *testing.T) {
	_, err := WithTimeout(context.Background(), time.Millisecond, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("error = %v, want ErrTimeout", err)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		t.Error("ErrTimeout must not match context errors")
	}
}

func TestWithTimeoutCancelsLoser(t *testing.T) {
	stopped := make(chan struct{})
	WithTimeout(context.Background(), 10*time.Millisecond, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		close(stopped)
		return 0, nil
	})

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("losing action's context was not cancelled")
	}
}

func TestWithTimeoutParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WithTimeout(ctx, time.Hour, func(ctx context.Context) (int, error) {
		time.Sleep(100 * time.Millisecond)
		return 0, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestPause(t *testing.T) {
	start := time.Now()
	if err := Pause(context.Background(), 30*time.Millisecond); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("Pause() returned after %v", elapsed)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := Pause(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("Pause() on cancelled ctx = %v, want context.Canceled", err)
	}
}

func TestBusyWait(t *testing.T) {
	start := time.Now()
	BusyWait(20 * time.Millisecond)
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("BusyWait() returned after %v", elapsed)
	}
}
