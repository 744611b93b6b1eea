package main

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/hickeroar/spamcheck/bayes"
)

// assertJSONContentType verifies the response content type is JSON.
func assertJSONContentType(t *testing.T, rr *httptest.ResponseRecorder) {
	t.Helper()
	contentType := rr.Header().Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		t.Fatalf("expected application/json content type, got %q", contentType)
	}
}

// assertJSONErrorShape verifies a JSON error response payload shape.
func assertJSONErrorShape(t *testing.T, rr *httptest.ResponseRecorder) {
	t.Helper()
	assertJSONContentType(t, rr)
	var payload map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("expected JSON error payload: %v", err)
	}
	if payload["error"] == "" {
		t.Fatalf("expected non-empty error field, got payload=%v", payload)
	}
}

// newTestServer creates a classifier API over the default model.
func newTestServer() (*ClassifierAPI, *http.ServeMux) {
	api := NewClassifierAPI(bayes.NewClassifier(nil))
	api.ready.Store(true)
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)
	return api, mux
}

// newTestServerWithAuth creates an authenticated API test handler.
func newTestServerWithAuth(token string) (*ClassifierAPI, http.Handler) {
	api, mux := newTestServer()
	return api, withAuthorizationToken(mux, token)
}

func post(mux http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func TestClassifyMethodNotAllowed(t *testing.T) {
	_, mux := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/classify", nil)
	rr := httptest.NewRecorder()

	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("unexpected status: got %d, want %d", rr.Code, http.StatusMethodNotAllowed)
	}
	if allow := rr.Header().Get("Allow"); allow != http.MethodPost {
		t.Fatalf("unexpected Allow header: got %q, want %q", allow, http.MethodPost)
	}
	assertJSONErrorShape(t, rr)
}

func TestClassifyReturnsPosterior(t *testing.T) {
	_, mux := newTestServer()

	rr := post(mux, "/classify", "Win Money NOW")
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d, want %d", rr.Code, http.StatusOK)
	}
	assertJSONContentType(t, rr)

	var resp ClassificationResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal classify response: %v", err)
	}
	if resp.Category != "spam" {
		t.Fatalf("unexpected category: got %q, want %q", resp.Category, "spam")
	}
	if resp.Spam <= 0.5 {
		t.Fatalf("expected spam posterior above 0.5, got %f", resp.Spam)
	}
	if math.Abs(resp.Spam+resp.Ham-1) > 1e-9 {
		t.Fatalf("posteriors do not sum to 1: spam=%f ham=%f", resp.Spam, resp.Ham)
	}
	if strings.Join(resp.Tokens, " ") != "win money now" {
		t.Fatalf("unexpected tokens: %v", resp.Tokens)
	}
}

func TestClassifyEmptyBodyRejected(t *testing.T) {
	_, mux := newTestServer()

	for _, body := range []string{"", "  \n\t "} {
		rr := post(mux, "/classify", body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("unexpected status for %q: got %d, want %d", body, rr.Code, http.StatusBadRequest)
		}
		assertJSONErrorShape(t, rr)
		if !strings.Contains(rr.Body.String(), bayes.ErrEmptyInput.Error()) {
			t.Fatalf("expected empty input error, got %s", rr.Body.String())
		}
	}
}

func TestScoreReturnsBothLabels(t *testing.T) {
	_, mux := newTestServer()

	rr := post(mux, "/score", "project deadline")
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d, want %d", rr.Code, http.StatusOK)
	}

	var scores map[string]float64
	if err := json.Unmarshal(rr.Body.Bytes(), &scores); err != nil {
		t.Fatalf("failed to unmarshal score response: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("expected two scores, got %v", scores)
	}
	if scores["ham"] <= scores["spam"] {
		t.Fatalf("expected ham score to be greater for ham text: ham=%f spam=%f", scores["ham"], scores["spam"])
	}

	rr = post(mux, "/score", " ")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status for empty score: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
	assertJSONErrorShape(t, rr)
}

func TestInfoReportsModel(t *testing.T) {
	_, mux := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/info", nil)
	rr := httptest.NewRecorder()

	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected info status: got %d, want %d", rr.Code, http.StatusOK)
	}

	var info InfoResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &info); err != nil {
		t.Fatalf("failed to unmarshal info response: %v", err)
	}
	if info.Smoothing != bayes.DefaultSmoothing {
		t.Fatalf("unexpected smoothing: got %f", info.Smoothing)
	}
	if info.Priors != bayes.DefaultPriors {
		t.Fatalf("unexpected priors: got %+v", info.Priors)
	}
	if got := info.Categories["spam"].TokenTally; got != 16 {
		t.Fatalf("unexpected spam tally: got %d, want 16", got)
	}
	if got := info.Categories["ham"].TokenTally; got != 18 {
		t.Fatalf("unexpected ham tally: got %d, want 18", got)
	}
}

func TestClassifyDoesNotChangeInfo(t *testing.T) {
	_, mux := newTestServer()

	infoBefore := httptest.NewRecorder()
	mux.ServeHTTP(infoBefore, httptest.NewRequest(http.MethodGet, "/info", nil))

	post(mux, "/classify", "completely new vocabulary words")

	infoAfter := httptest.NewRecorder()
	mux.ServeHTTP(infoAfter, httptest.NewRequest(http.MethodGet, "/info", nil))

	if infoBefore.Body.String() != infoAfter.Body.String() {
		t.Fatalf("model changed after classify:\nbefore=%s\nafter=%s", infoBefore.Body.String(), infoAfter.Body.String())
	}
}

func TestOversizedBodyRejected(t *testing.T) {
	_, mux := newTestServer()
	oversized := bytes.Repeat([]byte("a"), maxRequestBodyBytes+1)
	req := httptest.NewRequest(http.MethodPost, "/classify", bytes.NewReader(oversized))
	rr := httptest.NewRecorder()

	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("unexpected status: got %d, want %d", rr.Code, http.StatusRequestEntityTooLarge)
	}
	assertJSONErrorShape(t, rr)
}

func TestHealthAndReadyEndpoints(t *testing.T) {
	_, mux := newTestServer()

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("unexpected status for %s: got %d, want %d", path, rr.Code, http.StatusOK)
		}
		assertJSONContentType(t, rr)
	}
}

func TestReadyEndpointNotReady(t *testing.T) {
	api, mux := newTestServer()
	api.ready.Store(false)

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status for /readyz: got %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
	assertJSONContentType(t, rr)
}

func TestAuthorizationMiddlewareRejectsInvalidOrMissingToken(t *testing.T) {
	_, handler := newTestServerWithAuth("secret-token")

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic secret-token"},
		{name: "missing bearer token", header: "Bearer"},
		{name: "wrong token", header: "Bearer wrong-token"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/info", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("unexpected status: got %d, want %d", rr.Code, http.StatusUnauthorized)
			}
			if got := rr.Header().Get("WWW-Authenticate"); got != authRealm {
				t.Fatalf("unexpected WWW-Authenticate header: got %q", got)
			}
			assertJSONErrorShape(t, rr)
		})
	}
}

func TestAuthorizationMiddlewareAllowsValidTokenAndProbes(t *testing.T) {
	_, handler := newTestServerWithAuth("secret-token")

	req := httptest.NewRequest(http.MethodGet, "/info", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d, want %d", rr.Code, http.StatusOK)
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("probe %s should bypass auth: got %d", path, rr.Code)
		}
	}
}

func TestConcurrentRequests(t *testing.T) {
	_, mux := newTestServer()
	want := post(mux, "/classify", "free cash offer for the team").Body.String()

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			classifyRR := post(mux, "/classify", "free cash offer for the team")
			if classifyRR.Code != http.StatusOK {
				t.Errorf("unexpected classify status: got %d", classifyRR.Code)
			}
			if got := classifyRR.Body.String(); got != want {
				t.Errorf("non-deterministic classify response: got %s want %s", got, want)
			}

			scoreRR := post(mux, "/score", "free cash offer for the team")
			if scoreRR.Code != http.StatusOK {
				t.Errorf("unexpected score status: got %d", scoreRR.Code)
			}
		}()
	}
	wg.Wait()
}
