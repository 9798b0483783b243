package db

import (
	"strings"
	"testing"
	"time"
)

func TestConnectMissingURL(t *testing.T) {
	_, err := Connect("")
	if err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Errorf("Connect(\"\") error = %v, want missing-URL error", err)
	}
}

// Exhausting the retries must surface the last connection error instead of
// handing back a dead pool.
func TestConnectReportsFailureAfterRetries(t *testing.T) {
	origRetries, origDelay := maxRetries, retryDelay
	maxRetries, retryDelay = 2, 10*time.Millisecond
	defer func() { maxRetries, retryDelay = origRetries, origDelay }()

	_, err := Connect("postgres://docqa@127.0.0.1:1/docqa?connect_timeout=1")
	if err == nil {
		t.Fatal("Connect() returned nil error for an unreachable database")
	}
	if !strings.Contains(err.Error(), "after 2 attempts") {
		t.Errorf("Connect() error = %v, want retry-exhaustion error", err)
	}
}
