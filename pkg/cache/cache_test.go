package cache

import (
	"context"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	a := Key("sweep", []byte(`{"parameter":"K_out"}`))
	b := Key("sweep", []byte(`{"parameter":"K_out"}`))
	c := Key("sweep", []byte(`{"parameter":"K_in"}`))

	if a != b {
		t.Errorf("Key() is not stable: %q != %q", a, b)
	}
	if a == c {
		t.Errorf("different requests share key %q", a)
	}
	if !strings.HasPrefix(a, "restpot:sweep:") {
		t.Errorf("Key() = %q, want restpot:sweep: prefix", a)
	}
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2)

	if _, ok := m.Get(ctx, "a"); ok {
		t.Fatalf("empty cache should miss")
	}
	for i, k := range []string{"a", "b", "c"} {
		if err := m.Set(ctx, k, fmt.Sprint(i)); err != nil {
			t.Fatal(err)
		}
	}
	if got := m.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
	if v, ok := m.Get(ctx, "c"); !ok || v != "2" {
		t.Errorf("Get(c) = %q, %v; want 2, true", v, ok)
	}

	// Overwriting an existing key does not evict.
	if err := m.Set(ctx, "c", "3"); err != nil {
		t.Fatal(err)
	}
	if got := m.Len(); got != 2 {
		t.Errorf("Len() after overwrite = %d, want 2", got)
	}
}

func TestRedisUnreachable(t *testing.T) {
	// Grab a free port and close it so nothing is listening there.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	_ = l.Close()

	r := NewRedis(addr, time.Minute)
	defer r.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.Ping(ctx); err == nil {
		t.Fatalf("Ping() should fail without a server")
	}
	if _, ok := r.Get(ctx, "k"); ok {
		t.Errorf("Get() should miss without a server")
	}
	if err := r.Set(ctx, "k", "v"); err == nil {
		t.Errorf("Set() should fail without a server")
	}
}
