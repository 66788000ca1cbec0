package redis

import (
	"testing"
	"time"
)

func TestLockKey(t *testing.T) {
	if got := lockKey("personagem"); got != "mesa:idlock:personagem" {
		t.Fatalf("lockKey = %q", got)
	}
}

func TestConfigEnabled(t *testing.T) {
	if (&Config{}).Enabled() {
		t.Fatal("empty address should disable redis")
	}
	if !(&Config{Addr: "localhost:6379"}).Enabled() {
		t.Fatal("address should enable redis")
	}
}

func TestNewClientUnreachable(t *testing.T) {
	_, err := NewClient(&Config{
		Addr:        "127.0.0.1:1",
		PoolSize:    1,
		DialTimeout: 200 * time.Millisecond,
	})
	if err == nil {
		t.Fatal("expected connection error")
	}
}
