package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"fittrack/internal/metrics"
)

func TestWrapHandlerRecordsStatus(t *testing.T) {
	const endpoint = "test_status"
	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(endpoint, "201"))

	h := WrapHandler(endpoint, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("ok"))
	})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", nil))

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}
	after := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(endpoint, "201"))
	if after-before != 1 {
		t.Errorf("Expected one request counted, got %v", after-before)
	}
}

func TestWrapHandlerImplicitOK(t *testing.T) {
	const endpoint = "test_implicit"
	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(endpoint, "200"))

	h := WrapHandler(endpoint, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	after := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(endpoint, "200"))
	if after-before != 1 {
		t.Errorf("Expected one request counted, got %v", after-before)
	}
}

func TestWrapHandlerRecoversPanic(t *testing.T) {
	const endpoint = "test_panic"
	before := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(endpoint, "500"))

	h := WrapHandler(endpoint, func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
	after := testutil.ToFloat64(metrics.HTTPRequestsTotal.WithLabelValues(endpoint, "500"))
	if after-before != 1 {
		t.Errorf("Expected one request counted, got %v", after-before)
	}
}
