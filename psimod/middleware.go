package psimod

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	log "github.com/sirupsen/logrus"
)

const transactionIDHeader = "X-Request-Id"

func (th *Handler) EnforceDataLoaded(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !th.service.IsDataLoaded() {
			w.Header().Set("Content-Type", "application/json")
			writeJSONMessageWithStatus(w, "Data not loaded", http.StatusServiceUnavailable)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// RequestLogging tags each request with a transaction id and logs it once
// the response is written.
func RequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tid := r.Header.Get(transactionIDHeader)
		if tid == "" {
			tid = "tid_" + uuid.NewString()
		}
		w.Header().Set(transactionIDHeader, tid)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		took := time.Since(start)

		requestsTotal.WithLabelValues(r.Method, strconv.Itoa(rec.status)).Inc()
		requestDuration.WithLabelValues(r.Method).Observe(took.Seconds())
		log.WithFields(log.Fields{
			"transaction_id": tid,
			"method":         r.Method,
			"uri":            r.URL.RequestURI(),
			"status":         rec.status,
			"took":           took,
		}).Info("Request served")
	})
}

func Recovery(next http.Handler) http.Handler {
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(log.StandardLogger()),
		handlers.PrintRecoveryStack(true),
	)(next)
}
