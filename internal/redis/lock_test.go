package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/mesa-rpg/api/internal/database"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := NewClient(&Config{
		Addr:        mr.Addr(),
		PoolSize:    4,
		DialTimeout: time.Second,
		LockTTL:     time.Second,
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestLockAcquireAndRelease(t *testing.T) {
	client, mr := newTestClient(t)

	unlock, err := client.Lock(context.Background(), "personagem")
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if !mr.Exists("mesa:idlock:personagem") {
		t.Fatal("lock key not set")
	}
	if ttl := mr.TTL("mesa:idlock:personagem"); ttl <= 0 || ttl > time.Second {
		t.Fatalf("ttl = %s, want (0, 1s]", ttl)
	}

	unlock()
	if mr.Exists("mesa:idlock:personagem") {
		t.Fatal("lock key still set after release")
	}
}

func TestLockWaitsForRelease(t *testing.T) {
	client, _ := newTestClient(t)

	unlock, err := client.Lock(context.Background(), "item")
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}

	acquired := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		second, err := client.Lock(ctx, "item")
		if err == nil {
			second()
		}
		acquired <- err
	}()

	select {
	case err := <-acquired:
		t.Fatalf("second Lock returned while held: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	unlock()
	select {
	case err := <-acquired:
		if err != nil {
			t.Fatalf("second Lock: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("second Lock did not acquire after release")
	}
}

func TestLockTimesOutWhileHeld(t *testing.T) {
	client, _ := newTestClient(t)

	unlock, err := client.Lock(context.Background(), "missao")
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	_, err = client.Lock(ctx, "missao")
	if !errors.Is(err, database.ErrLockTimeout) {
		t.Fatalf("err = %v, want ErrLockTimeout", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want it to wrap the deadline", err)
	}
}

func TestReleaseAfterExpiryKeepsNewHolder(t *testing.T) {
	client, mr := newTestClient(t)
	ctx := context.Background()

	stale, err := client.Lock(ctx, "sessao")
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	mr.FastForward(2 * time.Second)

	current, err := client.Lock(ctx, "sessao")
	if err != nil {
		t.Fatalf("Lock after expiry: %v", err)
	}
	token, err := mr.Get("mesa:idlock:sessao")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	stale()
	got, err := mr.Get("mesa:idlock:sessao")
	if err != nil || got != token {
		t.Fatalf("key = %q (%v), want the current holder's token %q", got, err, token)
	}

	current()
	if mr.Exists("mesa:idlock:sessao") {
		t.Fatal("current holder's release left the key")
	}
}
