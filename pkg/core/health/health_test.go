package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func fixed(status Status) func(ctx context.Context) CheckResult {
	return func(ctx context.Context) CheckResult {
		return CheckResult{Status: status, Message: string(status)}
	}
}

func TestNewChecker(t *testing.T) {
	checker := NewChecker("catalog", fixed(StatusHealthy))

	if checker.Name() != "catalog" {
		t.Errorf("Name() = %v, want catalog", checker.Name())
	}
	if result := checker.Check(context.Background()); result.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", result.Status)
	}
}

func TestRegistry_Check(t *testing.T) {
	tests := []struct {
		name     string
		statuses map[string]Status
		want     Status
	}{
		{"empty", nil, StatusHealthy},
		{"all healthy", map[string]Status{"a": StatusHealthy, "b": StatusHealthy}, StatusHealthy},
		{"degraded", map[string]Status{"a": StatusHealthy, "b": StatusDegraded}, StatusDegraded},
		{"unknown counts as degraded", map[string]Status{"a": ""}, StatusDegraded},
		{"unhealthy wins", map[string]Status{"a": StatusDegraded, "b": StatusUnhealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry("minipas", "0.1.0")
			for name, status := range tt.statuses {
				r.RegisterFunc(name, fixed(status))
			}

			report := r.Check(context.Background())
			if report.Status != tt.want {
				t.Errorf("Status = %v, want %v", report.Status, tt.want)
			}
			if len(report.Checks) != len(tt.statuses) {
				t.Fatalf("Checks = %d, want %d", len(report.Checks), len(tt.statuses))
			}
			for i, check := range report.Checks {
				if check.Name == "" || check.Timestamp.IsZero() {
					t.Errorf("check %d not annotated: %+v", i, check)
				}
				if i > 0 && report.Checks[i-1].Name > check.Name {
					t.Error("checks are not sorted by name")
				}
			}
		})
	}
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := NewRegistry("minipas", "0.1.0")
	r.RegisterFunc("a", fixed(StatusUnhealthy))
	r.RegisterFunc("a", fixed(StatusHealthy))

	report := r.Check(context.Background())
	if len(report.Checks) != 1 || report.Status != StatusHealthy {
		t.Errorf("report = %+v", report)
	}
	if !strings.Contains(report.String(), "Service: minipas, Status: healthy") {
		t.Errorf("String() = %q", report.String())
	}
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name   string
		method string
		status Status
		code   int
	}{
		{"healthy", http.MethodGet, StatusHealthy, http.StatusOK},
		{"degraded still serves", http.MethodGet, StatusDegraded, http.StatusOK},
		{"unhealthy", http.MethodGet, StatusUnhealthy, http.StatusServiceUnavailable},
		{"wrong method", http.MethodPost, StatusHealthy, http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry("minipas", "0.1.0")
			r.RegisterFunc("check", fixed(tt.status))

			rec := httptest.NewRecorder()
			r.Handler(time.Second)(rec, httptest.NewRequest(tt.method, "/health", nil))

			if rec.Code != tt.code {
				t.Fatalf("code = %d, want %d", rec.Code, tt.code)
			}
			if tt.code == http.StatusMethodNotAllowed {
				return
			}

			var report Report
			if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if report.Status != tt.status || report.Service != "minipas" {
				t.Errorf("report = %+v", report)
			}
		})
	}
}
