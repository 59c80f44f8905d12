package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	t.Run("roundTrip", func(t *testing.T) {
		if err := c.Set(ctx, "layout:abc", []byte(`{"x":1}`), time.Hour); err != nil {
			t.Fatal(err)
		}
		data, hit, err := c.Get(ctx, "layout:abc")
		if err != nil || !hit || string(data) != `{"x":1}` {
			t.Errorf("Get = %q, %v, %v", data, hit, err)
		}
	})

	t.Run("miss", func(t *testing.T) {
		_, hit, err := c.Get(ctx, "absent")
		if err != nil || hit {
			t.Errorf("Get(absent) hit=%v err=%v", hit, err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		if err := c.Set(ctx, "old", []byte("x"), time.Nanosecond); err != nil {
			t.Fatal(err)
		}
		time.Sleep(2 * time.Millisecond)
		if _, hit, _ := c.Get(ctx, "old"); hit {
			t.Error("expired entry returned")
		}
		if _, err := os.Stat(c.path("old")); !os.IsNotExist(err) {
			t.Error("expired entry not removed")
		}
	})

	t.Run("corrupt", func(t *testing.T) {
		p := c.path("bad")
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte("not json"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, hit, err := c.Get(ctx, "bad"); hit || err != nil {
			t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
		}
	})

	t.Run("deleteAndClear", func(t *testing.T) {
		_ = c.Set(ctx, "a", []byte("1"), 0)
		_ = c.Set(ctx, "b", []byte("2"), 0)
		if err := c.Delete(ctx, "a"); err != nil {
			t.Fatal(err)
		}
		if err := c.Delete(ctx, "a"); err != nil {
			t.Errorf("second Delete: %v", err)
		}
		n, err := c.Clear()
		if err != nil {
			t.Fatal(err)
		}
		if n < 1 {
			t.Errorf("Clear removed %d entries", n)
		}
		if _, hit, _ := c.Get(ctx, "b"); hit {
			t.Error("entry survived Clear")
		}
	})
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash not deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs share a hash")
	}
	if len(h1) != 64 {
		t.Errorf("len = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.DatasetKey("abc"); got != "dataset:abc" {
		t.Errorf("DatasetKey = %q", got)
	}

	l1 := k.LayoutKey("g1", LayoutKeyOpts{K: 3.5, Iterations: 300, Seed: 42})
	l2 := k.LayoutKey("g1", LayoutKeyOpts{K: 3.5, Iterations: 300, Seed: 7})
	l3 := k.LayoutKey("g2", LayoutKeyOpts{K: 3.5, Iterations: 300, Seed: 42})
	if l1 == l2 || l1 == l3 {
		t.Error("layout keys must depend on graph hash and options")
	}
	if !strings.HasPrefix(l1, "layout:") {
		t.Errorf("LayoutKey = %q", l1)
	}

	a1 := k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg", Hard: true})
	a2 := k.ArtifactKey("h", ArtifactKeyOpts{Format: "svg", Hard: true, Focus: "DB"})
	if a1 == a2 {
		t.Error("artifact keys must depend on focus")
	}
}

func TestScopedKeyer(t *testing.T) {
	k := NewScopedKeyer(nil, "tenant:")
	if got := k.DatasetKey("x"); got != "tenant:dataset:x" {
		t.Errorf("DatasetKey = %q", got)
	}
	inner := NewDefaultKeyer().LayoutKey("g", LayoutKeyOpts{})
	if got := k.LayoutKey("g", LayoutKeyOpts{}); got != "tenant:"+inner {
		t.Errorf("LayoutKey = %q", got)
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()
	errDown := errors.New("down")

	tests := []struct {
		name      string
		failures  int
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, true, 1, false},
		{"permanent", 5, false, 1, true},
		{"recovers", 1, true, 2, false},
		{"exhausted", 5, true, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, 3, time.Millisecond, func() error {
				calls++
				if calls <= tt.failures {
					if tt.retryable {
						return Retryable(errDown)
					}
					return errDown
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errDown) {
				t.Errorf("err = %v, want wrapped errDown", err)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithBackoff(ctx, 3, time.Second, func() error {
		return Retryable(errors.New("down"))
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) != nil")
	}
	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) || err.Error() != ErrUnavailable.Error() {
		t.Errorf("Retryable(ErrUnavailable) = %v", err)
	}
	if IsRetryable(ErrUnavailable) {
		t.Error("plain error reported retryable")
	}
}
