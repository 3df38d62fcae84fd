package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Checker represents dependencies that can be probed for readiness.
type Checker interface {
	CheckData(ctx context.Context, timeout time.Duration) error
	CheckUploads(ctx context.Context, timeout time.Duration) error
}

// Handler exposes HTTP handlers for health endpoints.
type Handler struct {
	Checker       Checker
	DataTimeout   time.Duration
	UploadTimeout time.Duration
}

// Live reports liveness status.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready reports readiness based on dependency probes.
func (h Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.Checker == nil {
		http.Error(w, "dependencies unavailable", http.StatusServiceUnavailable)
		return
	}
	ctx := r.Context()
	dataStatus := "ok"
	if err := h.Checker.CheckData(ctx, h.dataTimeout()); err != nil {
		dataStatus = err.Error()
	}
	uploadStatus := "ok"
	if err := h.Checker.CheckUploads(ctx, h.uploadTimeout()); err != nil {
		uploadStatus = err.Error()
	}
	status := map[string]string{
		"data":    dataStatus,
		"uploads": uploadStatus,
	}
	w.Header().Set("Content-Type", "application/json")
	if dataStatus != "ok" || uploadStatus != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(status)
}

func (h Handler) dataTimeout() time.Duration {
	if h.DataTimeout <= 0 {
		return 500 * time.Millisecond
	}
	return h.DataTimeout
}

func (h Handler) uploadTimeout() time.Duration {
	if h.UploadTimeout <= 0 {
		return 300 * time.Millisecond
	}
	return h.UploadTimeout
}
