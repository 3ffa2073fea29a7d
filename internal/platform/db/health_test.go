package db

import (
	"errors"
	"net/http"
	"testing"
)

func TestReport_Healthy(t *testing.T) {
	stats := &PoolStats{TotalConns: 2, MaxConns: 10, Healthy: true}

	code, r := Report("postgres", nil, stats)
	if code != http.StatusOK {
		t.Errorf("expected 200, got %d", code)
	}
	if r.Status != "healthy" {
		t.Errorf("expected healthy, got %s", r.Status)
	}
	if r.Error != "" {
		t.Errorf("expected no error, got %q", r.Error)
	}
	if !r.Pool.Healthy {
		t.Error("expected pool to stay healthy")
	}
}

func TestReport_PingFailure(t *testing.T) {
	stats := &PoolStats{TotalConns: 2, MaxConns: 10, Healthy: true}

	code, r := Report("postgres", errors.New("connection refused"), stats)
	if code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", code)
	}
	if r.Status != "unhealthy" {
		t.Errorf("expected unhealthy, got %s", r.Status)
	}
	if r.Error != "connection refused" {
		t.Errorf("unexpected error text %q", r.Error)
	}
	if r.Pool.Healthy {
		t.Error("expected pool to be marked unhealthy")
	}
}

func TestReport_WithoutPool(t *testing.T) {
	code, r := Report("file", nil, nil)
	if code != http.StatusOK {
		t.Errorf("expected 200, got %d", code)
	}
	if r.Backend != "file" {
		t.Errorf("expected backend file, got %s", r.Backend)
	}
	if r.Pool != nil {
		t.Error("expected no pool stats")
	}
}
