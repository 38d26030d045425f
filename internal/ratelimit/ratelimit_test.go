package ratelimit

import (
	"testing"
	"time"
)

func TestLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		calls    int
		wantPass int
	}{
		{name: "burst allows initial requests", rps: 1, burst: 3, calls: 3, wantPass: 3},
		{name: "exceeding burst blocks", rps: 1, burst: 2, calls: 5, wantPass: 2},
		{name: "disabled allows everything", rps: 0, burst: 1, calls: 50, wantPass: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.rps, tt.burst)
			if l != nil {
				frozen := time.Unix(1000, 0)
				l.now = func() time.Time { return frozen }
			}

			passed := 0
			for i := 0; i < tt.calls; i++ {
				if ok, _ := l.Allow(1); ok {
					passed++
				}
			}

			if passed != tt.wantPass {
				t.Errorf("Allow() passed %d, want %d", passed, tt.wantPass)
			}
		})
	}
}

func TestLimiter_UsersAreIndependent(t *testing.T) {
	l := New(1, 1)
	frozen := time.Unix(1000, 0)
	l.now = func() time.Time { return frozen }

	if ok, _ := l.Allow(1); !ok {
		t.Fatal("first call for user 1 should pass")
	}
	if ok, _ := l.Allow(2); !ok {
		t.Fatal("user 2 must not share user 1's bucket")
	}
}

func TestLimiter_RetryAfter(t *testing.T) {
	l := New(0.5, 1)
	clock := time.Unix(1000, 0)
	l.now = func() time.Time { return clock }

	if ok, _ := l.Allow(1); !ok {
		t.Fatal("first call should pass")
	}
	ok, wait := l.Allow(1)
	if ok {
		t.Fatal("second call should be limited")
	}
	if wait != 2*time.Second {
		t.Errorf("retry after = %v, want 2s", wait)
	}

	clock = clock.Add(2 * time.Second)
	if ok, _ := l.Allow(1); !ok {
		t.Error("call after waiting should pass")
	}
}
