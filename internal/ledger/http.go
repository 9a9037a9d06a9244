package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"holdem-fair/holdem"
	"holdem-fair/replay"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// HTTPHandler serves the read-only audit API over the ledger.
type HTTPHandler struct {
	ledger Service
	logger *zap.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

type verifyResponse struct {
	HandID         string              `json:"hand_id"`
	Verified       bool                `json:"verified"`
	ServerSeedHash string              `json:"server_seed_hash"`
	Failure        *replay.ReplayError `json:"failure,omitempty"`
}

func NewHTTPHandler(ledgerService Service, logger *zap.Logger) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPHandler{ledger: ledgerService, logger: logger.Named("audit")}
}

// Routes builds the audit router.
func (h *HTTPHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})
	r.Route("/api/audit", func(r chi.Router) {
		r.Get("/hands", h.handleRecent)
		r.Post("/replay", h.handleReplay)
		r.Route("/hands/{handID}", func(r chi.Router) {
			r.Get("/", h.handleGetHand)
			r.Get("/steps", h.handleGetSteps)
			r.Get("/verify", h.handleVerify)
		})
	})
	return r
}

func (h *HTTPHandler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

func (h *HTTPHandler) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r.URL.Query().Get("limit"))
	tableID := strings.TrimSpace(r.URL.Query().Get("table"))
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	items, err := h.ledger.ListRecent(ctx, tableID, limit)
	if err != nil {
		h.logger.Warn("list recent hands failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "query recent hands failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
	})
}

func (h *HTTPHandler) handleGetHand(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadHand(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *HTTPHandler) handleGetSteps(w http.ResponseWriter, r *http.Request) {
	handID := chi.URLParam(r, "handID")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	steps, err := h.ledger.GetHandSteps(ctx, handID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "hand not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "query hand steps failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"hand_id": handID,
		"steps":   steps,
	})
}

// handleVerify re-runs a stored hand from its revealed seeds and checks the
// commitment and final stacks.
func (h *HTTPHandler) handleVerify(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadHand(w, r)
	if !ok {
		return
	}
	resp := verifyResponse{HandID: rec.HandID, ServerSeedHash: rec.ServerSeedHash, Verified: true}
	if holdem.SeedCommitment(rec.ServerSeed) != rec.ServerSeedHash {
		resp.Verified = false
		resp.Failure = &replay.ReplayError{StepIndex: -1, Reason: "hash_mismatch", Message: "server seed does not match commitment"}
	} else if err := replay.Verify(rec.Spec, rec.FinalStacks); err != nil {
		resp.Verified = false
		var re *replay.ReplayError
		if errors.As(err, &re) {
			resp.Failure = re
		} else {
			resp.Failure = &replay.ReplayError{StepIndex: -1, Reason: "verify_failed", Message: err.Error()}
		}
	}
	if !resp.Verified {
		h.logger.Warn("hand failed verification",
			zap.String("hand_id", rec.HandID),
			zap.String("reason", resp.Failure.Reason))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleReplay runs a posted hand spec without storing it.
func (h *HTTPHandler) handleReplay(w http.ResponseWriter, r *http.Request) {
	var spec replay.HandSpec
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&spec); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tape, err := replay.Run(spec)
	if err != nil {
		var re *replay.ReplayError
		if errors.As(err, &re) {
			writeJSON(w, http.StatusUnprocessableEntity, re)
			return
		}
		writeError(w, http.StatusInternalServerError, "replay failed")
		return
	}
	writeJSON(w, http.StatusOK, replay.ToWireTape(tape))
}

func (h *HTTPHandler) loadHand(w http.ResponseWriter, r *http.Request) (*HandRecord, bool) {
	handID := strings.TrimSpace(chi.URLParam(r, "handID"))
	if handID == "" {
		writeError(w, http.StatusBadRequest, "missing hand id")
		return nil, false
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	rec, err := h.ledger.GetHand(ctx, handID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "hand not found")
			return nil, false
		}
		h.logger.Warn("get hand failed", zap.String("hand_id", handID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "query hand failed")
		return nil, false
	}
	return rec, true
}

func parseLimit(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 20
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 20
	}
	if n > 100 {
		return 100
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
