package redis

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestConnect_UnreachableServer(t *testing.T) {
	// port 1 is reserved and refuses connections on loopback
	client, err := Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 500 * time.Millisecond})
	if err == nil {
		_ = client.Close()
		t.Fatal("expected an error for an unreachable server")
	}
	if !strings.Contains(err.Error(), "redis ping 127.0.0.1:1") {
		t.Errorf("unexpected error: %v", err)
	}
}
