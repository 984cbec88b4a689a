package exercisedb

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func setupTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClient("test_api_key", "", nil)
	client.baseURL = server.URL
	client.initialDelay = time.Millisecond
	client.maxDelay = 5 * time.Millisecond
	return client
}

var chestExercises = []Exercise{
	{
		ID:           "0025",
		Name:         "barbell bench press",
		BodyPart:     "chest",
		Equipment:    "barbell",
		Target:       "pectorals",
		Instructions: []string{"Lie flat on the bench.", "Lower the bar to your chest."},
	},
	{
		ID:           "0251",
		Name:         "push-up",
		BodyPart:     "chest",
		Equipment:    "body weight",
		Target:       "pectorals",
		Instructions: []string{"Start in a plank."},
	},
}

func TestByBodyPart(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/exercises/bodyPart/chest" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("limit") != "2" {
			t.Errorf("Expected limit 2, got %s", r.URL.Query().Get("limit"))
		}
		if r.Header.Get("X-RapidAPI-Key") != "test_api_key" {
			t.Errorf("Missing API key header")
		}
		if r.Header.Get("X-RapidAPI-Host") != DefaultHost {
			t.Errorf("Expected host header %s, got %s", DefaultHost, r.Header.Get("X-RapidAPI-Host"))
		}

		w.Header().Set("X-RateLimit-Requests-Limit", "100")
		w.Header().Set("X-RateLimit-Requests-Remaining", "75")
		json.NewEncoder(w).Encode(chestExercises)
	})

	exercises, err := client.ByBodyPart(context.Background(), "chest", 2)
	if err != nil {
		t.Fatalf("ByBodyPart failed: %v", err)
	}
	if len(exercises) != 2 {
		t.Fatalf("Expected 2 exercises, got %d", len(exercises))
	}
	if exercises[0].Name != "barbell bench press" || len(exercises[0].Instructions) != 2 {
		t.Errorf("Unexpected first exercise: %+v", exercises[0])
	}

	status := client.RateLimitStatus()
	if status.Limit != 100 || status.Remaining != 75 {
		t.Errorf("Expected quota 75/100, got %d/%d", status.Remaining, status.Limit)
	}
	if status.UsagePct != 25.0 {
		t.Errorf("Expected usage 25%%, got %f", status.UsagePct)
	}
}

func TestByEquipmentEscapesPath(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/exercises/equipment/body weight" {
			t.Errorf("Unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("limit") != "5" {
			t.Errorf("Expected default limit 5, got %s", r.URL.Query().Get("limit"))
		}
		w.Write([]byte(`[]`))
	})

	exercises, err := client.ByEquipment(context.Background(), "body weight", 0)
	if err != nil {
		t.Fatalf("ByEquipment failed: %v", err)
	}
	if exercises == nil || len(exercises) != 0 {
		t.Errorf("Expected empty slice, got %v", exercises)
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(chestExercises[:1])
	})

	exercises, err := client.ByBodyPart(context.Background(), "chest", 1)
	if err != nil {
		t.Fatalf("Expected success after retries, got %v", err)
	}
	if len(exercises) != 1 {
		t.Errorf("Expected 1 exercise, got %d", len(exercises))
	}
	if calls.Load() != 3 {
		t.Errorf("Expected 3 calls, got %d", calls.Load())
	}
}

func TestMaxRetriesExceeded(t *testing.T) {
	var calls atomic.Int32
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.ByBodyPart(context.Background(), "back", 3)
	if err == nil {
		t.Fatal("Expected error after exhausting retries")
	}
	if calls.Load() != maxRetries+1 {
		t.Errorf("Expected %d calls, got %d", maxRetries+1, calls.Load())
	}
}

func TestNoRetryOnUnauthorized(t *testing.T) {
	var calls atomic.Int32
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	})

	if _, err := client.ByBodyPart(context.Background(), "chest", 1); err == nil {
		t.Fatal("Expected error for forbidden response")
	}
	if calls.Load() != 1 {
		t.Errorf("Expected a single call, got %d", calls.Load())
	}
}

func TestQuotaExhaustedOpensCircuit(t *testing.T) {
	var calls atomic.Int32
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("X-RateLimit-Requests-Limit", "100")
		w.Header().Set("X-RateLimit-Requests-Remaining", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.ByBodyPart(context.Background(), "chest", 1)
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("Expected ErrCircuitOpen, got %v", err)
	}

	// further requests fail fast without reaching the server
	_, err = client.ByEquipment(context.Background(), "barbell", 1)
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("Expected ErrCircuitOpen, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("Expected 1 call, got %d", calls.Load())
	}
}

func TestNotConfigured(t *testing.T) {
	client := NewClient("", "", nil)
	if client.Configured() {
		t.Error("Client without key should not be configured")
	}

	_, err := client.ByBodyPart(context.Background(), "chest", 1)
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}

func TestContextCancelledDuringBackoff(t *testing.T) {
	client := setupTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	client.initialDelay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.ByBodyPart(ctx, "chest", 1)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}
