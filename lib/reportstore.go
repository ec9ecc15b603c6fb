package ipcbench

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/gorilla/mux"
	"github.com/segmentio/kafka-go"
)

// ReportStore keeps the reports collected by the orchestrator, keyed by run id.
type ReportStore struct {
	mu      sync.RWMutex
	reports map[string]Report
}

func NewReportStore() *ReportStore {
	return &ReportStore{reports: make(map[string]Report)}
}

func (s *ReportStore) Add(r Report) {
	s.mu.Lock()
	s.reports[r.RunID] = r
	s.mu.Unlock()
}

func (s *ReportStore) Get(runID string) (Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[runID]
	return r, ok
}

// List returns every report, most recently finished first.
func (s *ReportStore) List() []Report {
	s.mu.RLock()
	out := make([]Report, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, r)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].FinishedAt.Equal(out[j].FinishedAt) {
			return out[i].RunID < out[j].RunID
		}
		return out[i].FinishedAt.After(out[j].FinishedAt)
	})
	return out
}

func NewReportRouter(store *ReportStore) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.HandleFunc("/reports", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, store.List())
	}).Methods(http.MethodGet)
	r.HandleFunc("/reports/{runId}", func(w http.ResponseWriter, r *http.Request) {
		report, ok := store.Get(mux.Vars(r)["runId"])
		if !ok {
			http.Error(w, "report not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}).Methods(http.MethodGet)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	resp, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(resp)
}

// MessageReader is the part of *kafka.Reader the report consumer needs.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// ConsumeReports reads reports into store until ctx is done. Records that do
// not decode are logged and skipped; a read error ends the loop.
func ConsumeReports(ctx context.Context, r MessageReader, store *ReportStore, logger *slog.Logger) error {
	for {
		message, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read report: %w", err)
		}

		report, err := DecodeReport(message.Value)
		if err != nil {
			logger.Warn("skipping report", "error", err, "offset", message.Offset)
			continue
		}
		logger.Info("recvd report", "run_id", report.RunID, "host", report.Host,
			"received", report.Summary.Received, "declared", report.Summary.DeclaredTotal)
		store.Add(report)
	}
}
