package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/hickeroar/spamcheck/bayes"
	"github.com/hickeroar/spamcheck/internal/logger"
)

const maxRequestBodyBytes = 1 << 20 // 1 MiB

const authRealm = `Bearer realm="spamcheck"`

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

var (
	makeSignalChannel = func() chan os.Signal { return make(chan os.Signal, 1) }
	notifySignals     = func(c chan<- os.Signal, sig ...os.Signal) { signal.Notify(c, sig...) }
	newServer         = func(addr string, handler http.Handler) httpServer {
		return &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       30 * time.Second,
		}
	}
)

// ClassifierAPI serves classification endpoints over a model that was built
// once at start-up and is never written to afterwards.
type ClassifierAPI struct {
	classifier *bayes.Classifier
	ready      atomic.Bool
}

// NewClassifierAPI returns an API for classifier.
func NewClassifierAPI(classifier *bayes.Classifier) *ClassifierAPI {
	return &ClassifierAPI{classifier: classifier}
}

// RegisterRoutes registers all API routes on the provided ServeMux.
func (c *ClassifierAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/info", c.InfoHandler)
	mux.HandleFunc("/classify", c.ClassifyHandler)
	mux.HandleFunc("/score", c.ScoreHandler)
	mux.HandleFunc("/healthz", HealthHandler)
	mux.HandleFunc("/readyz", c.ReadyHandler)
}

// serve runs the API on port until SIGINT or SIGTERM, then drains it.
func serve(api *ClassifierAPI, port, authToken string) error {
	mux := http.NewServeMux()
	api.RegisterRoutes(mux)
	api.ready.Store(true)

	server := newServer(":"+port, withAuthorizationToken(mux, authToken))
	logger.Info("Server is listening on port %s.", port)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logFatal(err)
		}
	}()

	sigCh := makeSignalChannel()
	notifySignals(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	api.ready.Store(false)
	logger.Info("Received %v, shutting down.", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}

// withAuthorizationToken requires "Authorization: Bearer <token>" on every
// route except the probes. An empty token disables the check.
func withAuthorizationToken(next http.Handler, token string) http.Handler {
	if token == "" {
		return next
	}

	expected := []byte(token)
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path == "/healthz" || req.URL.Path == "/readyz" {
			next.ServeHTTP(w, req)
			return
		}

		provided, ok := strings.CutPrefix(req.Header.Get("Authorization"), "Bearer ")
		if !ok || provided == "" || subtle.ConstantTimeCompare([]byte(provided), expected) != 1 {
			w.Header().Set("WWW-Authenticate", authRealm)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		next.ServeHTTP(w, req)
	})
}

func writeJSON(w http.ResponseWriter, status int, value interface{}) {
	jsonResponse, err := json.Marshal(value)
	if err != nil {
		http.Error(w, `{"error":"failed to marshal response"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(jsonResponse); err != nil {
		logger.Warn("failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func readBody(w http.ResponseWriter, req *http.Request) (string, bool) {
	req.Body = http.MaxBytesReader(w, req.Body, maxRequestBodyBytes)
	defer req.Body.Close()

	body, err := io.ReadAll(req.Body)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return "", false
		}
		writeError(w, http.StatusBadRequest, "unable to read request body")
		return "", false
	}

	return string(body), true
}

func requireMethod(w http.ResponseWriter, req *http.Request, method string) bool {
	if req.Method != method {
		w.Header().Set("Allow", method)
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

// classifyBody reads and classifies the request body, writing the error
// response itself when that fails.
func (c *ClassifierAPI) classifyBody(w http.ResponseWriter, req *http.Request) (bayes.Posterior, bool) {
	body, ok := readBody(w, req)
	if !ok {
		return bayes.Posterior{}, false
	}

	posterior, err := c.classifier.Classify(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return bayes.Posterior{}, false
	}
	return posterior, true
}

// InfoHandler returns the model's counters and constants.
func (c *ClassifierAPI) InfoHandler(w http.ResponseWriter, req *http.Request) {
	if !requireMethod(w, req, http.MethodGet) {
		return
	}

	writeJSON(w, http.StatusOK, NewInfoResponse(c.classifier))
}

// ClassifyHandler classifies request body text and returns both posteriors.
func (c *ClassifierAPI) ClassifyHandler(w http.ResponseWriter, req *http.Request) {
	if !requireMethod(w, req, http.MethodPost) {
		return
	}

	posterior, ok := c.classifyBody(w, req)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, NewClassificationResponse(posterior))
}

// ScoreHandler returns the posterior of each label for request body text.
func (c *ClassifierAPI) ScoreHandler(w http.ResponseWriter, req *http.Request) {
	if !requireMethod(w, req, http.MethodPost) {
		return
	}

	body, ok := readBody(w, req)
	if !ok {
		return
	}

	scores, err := c.classifier.Score(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, scores)
}

// HealthHandler returns liveness status for process health checks.
func HealthHandler(w http.ResponseWriter, req *http.Request) {
	if !requireMethod(w, req, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadyHandler returns readiness status for traffic checks.
func (c *ClassifierAPI) ReadyHandler(w http.ResponseWriter, req *http.Request) {
	if !requireMethod(w, req, http.MethodGet) {
		return
	}
	if !c.ready.Load() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
