// Package httpapi exposes a shard.Table over HTTP using gorilla/mux,
// following the router-and-handler shape grafana-pyroscope's pkg/server
// and vinceanalytics-vince's server package use for their own query
// surfaces.
package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/sagalu/talon/internal/pool"
	"github.com/sagalu/talon/timeline"
)

// Table is the subset of shard.Table the HTTP API depends on.
type Table interface {
	Get(key string, tsec, hint uint64) (timeline.GetResult, error)
	Diff(key string, a, b, hint uint64) (timeline.DiffResult, error)
	Series(key string, a, b, hint uint64) ([]uint64, error)
	Summary(key string) (timeline.SummaryResult, error)
}

// New builds the HTTP router: GET /timelines/{key}/get, .../diff,
// .../series, .../summary, and /metrics for Prometheus scraping.
func New(tbl Table, log *logrus.Entry) http.Handler {
	r := mux.NewRouter()

	h := &handler{tbl: tbl, log: log}
	r.HandleFunc("/timelines/{key}/get", h.get).Methods(http.MethodGet)
	r.HandleFunc("/timelines/{key}/diff", h.diff).Methods(http.MethodGet)
	r.HandleFunc("/timelines/{key}/series", h.series).Methods(http.MethodGet)
	r.HandleFunc("/timelines/{key}/summary", h.summary).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}

type handler struct {
	tbl Table
	log *logrus.Entry
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	t, err := parseUint(r.URL.Query().Get("t"))
	if err != nil {
		http.Error(w, "invalid or missing t", http.StatusBadRequest)
		return
	}

	hint, _ := parseUint(r.URL.Query().Get("hint"))

	res, err := h.tbl.Get(key, t, hint)
	if err != nil {
		h.fail(w, key, err)
		return
	}

	h.writeJSON(w, res)
}

func (h *handler) diff(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	a, errA := parseUint(r.URL.Query().Get("a"))
	b, errB := parseUint(r.URL.Query().Get("b"))
	if errA != nil || errB != nil {
		http.Error(w, "invalid or missing a/b", http.StatusBadRequest)
		return
	}

	hint, _ := parseUint(r.URL.Query().Get("hint"))

	res, err := h.tbl.Diff(key, a, b, hint)
	if err != nil {
		h.fail(w, key, err)
		return
	}

	h.writeJSON(w, res)
}

func (h *handler) series(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	a, errA := parseUint(r.URL.Query().Get("a"))
	b, errB := parseUint(r.URL.Query().Get("b"))
	if errA != nil || errB != nil {
		http.Error(w, "invalid or missing a/b", http.StatusBadRequest)
		return
	}

	hint, _ := parseUint(r.URL.Query().Get("hint"))

	values, err := h.tbl.Series(key, a, b, hint)
	if err != nil {
		h.fail(w, key, err)
		return
	}

	h.writeJSON(w, values)
}

func (h *handler) summary(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	res, err := h.tbl.Summary(key)
	if err != nil {
		h.fail(w, key, err)
		return
	}

	h.writeJSON(w, res)
}

func (h *handler) fail(w http.ResponseWriter, key string, err error) {
	h.log.WithError(err).WithField("key", key).Error("httpapi: query failed")
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// writeJSON encodes v through a pooled buffer so the response body is
// fully materialized (and its Content-Length known) before any bytes
// reach the client.
func (h *handler) writeJSON(w http.ResponseWriter, v any) {
	buf := pool.GetHTTPBuffer()
	defer pool.PutHTTPBuffer(buf)

	if err := json.NewEncoder(buf).Encode(v); err != nil {
		h.log.WithError(err).Error("httpapi: failed to encode response")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func parseUint(s string) (uint64, error) {
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseUint(s, 10, 64)
}
