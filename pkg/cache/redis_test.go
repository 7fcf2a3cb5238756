package cache

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestRedisReply(t *testing.T) {
	c := &RedisCache{}
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

	tests := []struct {
		name      string
		data      []byte
		err       error
		wantHit   bool
		wantErr   bool
		retryable bool
	}{
		{name: "hit", data: []byte("png"), wantHit: true},
		{name: "missing key", err: redis.Nil},
		{name: "network failure", err: refused, wantErr: true, retryable: true},
		{name: "server error", err: errors.New("WRONGTYPE"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, hit, err := c.reply(tt.data, tt.err)
			if hit != tt.wantHit {
				t.Errorf("hit = %v, want %v", hit, tt.wantHit)
			}
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if hit && string(data) != string(tt.data) {
				t.Errorf("data = %q, want %q", data, tt.data)
			}
			if IsRetryable(err) != tt.retryable {
				t.Errorf("IsRetryable(%v) = %v, want %v", err, !tt.retryable, tt.retryable)
			}
			if tt.retryable && !errors.Is(err, ErrNetwork) {
				t.Errorf("network failure should wrap ErrNetwork: %v", err)
			}
		})
	}
}

// closedRedisURL returns a redis URL for a local port nothing listens on.
// Client side retries are disabled so only RetryWithBackoff retries.
func closedRedisURL(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("cannot listen on loopback: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()
	return "redis://" + addr + "/0?max_retries=-1&dial_timeout=1s"
}

func TestRedisCacheUnreachable(t *testing.T) {
	retryDelay = time.Millisecond
	defer func() { retryDelay = 100 * time.Millisecond }()

	c, err := NewRedisCache(closedRedisURL(t))
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	if err := c.Ping(ctx); !errors.Is(err, ErrNetwork) || !IsRetryable(err) {
		t.Errorf("Ping() = %v, want retryable ErrNetwork", err)
	}
	if _, hit, err := c.Get(ctx, "raster:abc"); hit || !errors.Is(err, ErrNetwork) {
		t.Errorf("Get() = hit %v, err %v; want miss with ErrNetwork", hit, err)
	}
	if err := c.Set(ctx, "raster:abc", []byte("png"), time.Minute); !errors.Is(err, ErrNetwork) {
		t.Errorf("Set() = %v, want ErrNetwork", err)
	}
}
