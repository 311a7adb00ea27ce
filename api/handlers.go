/*
handlers.go - HTTP handlers for the statistics API

PURPOSE:
  Exposes the statistics engine over REST. Handles HTTP request/response
  and JSON serialization, delegates everything else to the domain layer.

ENDPOINTS (per tier, n1 and n2):
  GET    /{tier}/             List records, optional startDate/endDate
  POST   /{tier}/add          Reconcile one day from the request body
  GET    /{tier}/{id}         Get one record
  DELETE /{tier}/{id}         Delete one record
  POST   /{tier}/update/{id}  Overwrite the eight raw counters
  POST   /{tier}/import       Import the configured legacy workbook
  POST   /{tier}/seed-week    Ensure Monday..Friday of this week exist

  GET    /export-stats        Combined N1+N2 totals as an xlsx download

ERROR HANDLING:
  Errors are returned as JSON with the status derived from the domain
  error class: 400 for invalid dates and a missing import anchor, 404 for
  unknown identifiers, 500 for store failures.

SEE ALSO:
  - dto.go: request/response shapes
  - server.go: router and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/Tiavinjanahary/STT/stats"
	"github.com/Tiavinjanahary/STT/workbook"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      stats.RecordStore
	Reconciler *stats.Reconciler
	Seeder     *stats.WeekSeeder
	Importer   *workbook.Importer

	// WorkbookPath locates the legacy workbook for the import endpoint.
	WorkbookPath string

	Log *logrus.Logger
}

// NewHandler wires the domain components around a store.
func NewHandler(store stats.RecordStore, workbookPath string, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.New()
	}
	rec := stats.NewReconciler(store)
	return &Handler{
		Store:        store,
		Reconciler:   rec,
		Seeder:       stats.NewWeekSeeder(store),
		Importer:     workbook.NewImporter(rec),
		WorkbookPath: workbookPath,
		Log:          log,
	}
}

// =============================================================================
// RECORD HANDLERS (per tier)
// =============================================================================

// ListStats returns the tier's records, newest first, optionally limited
// to the inclusive startDate/endDate query range.
func (h *Handler) ListStats(tier stats.Tier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := stats.RecordQuery{}

		start := r.URL.Query().Get("startDate")
		end := r.URL.Query().Get("endDate")
		if start != "" && end != "" {
			rng, err := stats.ParseDateRange(start, end)
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid date range", err)
				return
			}
			q.Range = &rng
		}

		records, err := h.Store.Find(r.Context(), tier, q)
		if err != nil {
			h.writeDomainError(w, tier, "Failed to list records", err)
			return
		}
		writeJSON(w, http.StatusOK, NewStatDTOs(records))
	}
}

// AddStat reconciles one day from the request body: creates the record or
// overwrites its counters if the day already exists.
func (h *Handler) AddStat(tier stats.Tier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpsertStatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}

		rec, err := h.Reconciler.Reconcile(r.Context(), tier, req.Date, req.Fields())
		if err != nil {
			h.writeDomainError(w, tier, "Failed to add record", err)
			return
		}
		writeJSON(w, http.StatusOK, NewStatDTO(rec))
	}
}

// GetStat returns a single record by id.
func (h *Handler) GetStat(tier stats.Tier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		rec, err := h.Store.FindOne(r.Context(), tier, id)
		if err != nil {
			h.writeDomainError(w, tier, "Failed to get record", err)
			return
		}
		writeJSON(w, http.StatusOK, NewStatDTO(rec))
	}
}

// UpdateStat overwrites the raw counters of an existing record. The
// derived metrics follow automatically on the next read.
func (h *Handler) UpdateStat(tier stats.Tier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req UpsertStatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body", err)
			return
		}

		counters := stats.CoerceCounters(req.Fields())
		rec, err := h.Store.UpdateFields(r.Context(), tier, id, counters)
		if err != nil {
			h.writeDomainError(w, tier, "Failed to update record", err)
			return
		}
		writeJSON(w, http.StatusOK, NewStatDTO(rec))
	}
}

// DeleteStat removes a record by id.
func (h *Handler) DeleteStat(tier stats.Tier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := h.Store.DeleteOne(r.Context(), tier, id); err != nil {
			h.writeDomainError(w, tier, "Failed to delete record", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Record deleted"})
	}
}

// =============================================================================
// BULK HANDLERS
// =============================================================================

// SeedWeek ensures the five weekdays of the current week exist for the
// tier, without ever touching existing data.
func (h *Handler) SeedWeek(tier stats.Tier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		inserted, err := h.Seeder.SeedCurrentWeek(r.Context(), tier)
		if err != nil {
			h.writeDomainError(w, tier, "Failed to seed week", err)
			return
		}
		writeJSON(w, http.StatusOK, SeedWeekResponse{Inserted: inserted})
	}
}

// ImportStats runs the legacy workbook import for the tier.
func (h *Handler) ImportStats(tier stats.Tier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := h.Importer.ImportFile(r.Context(), tier, h.WorkbookPath)
		if err != nil {
			h.Log.WithFields(logrus.Fields{
				"tier":     tier,
				"workbook": h.WorkbookPath,
				"imported": count,
			}).WithError(err).Error("import failed")
			h.writeDomainError(w, tier, "Import failed", err)
			return
		}

		h.Log.WithFields(logrus.Fields{"tier": tier, "imported": count}).Info("import complete")
		writeJSON(w, http.StatusOK, ImportResponse{
			Imported: count,
			Message:  fmt.Sprintf("%d jours de statistiques ont été importés ou mis à jour.", count),
		})
	}
}

// SummaryResponse pairs a record list with its totals, for the UI's
// summary table.
type SummaryResponse struct {
	Stats  []StatDTO `json:"stats"`
	Totals TotalsDTO `json:"totals"`
}

// Summary returns the tier's records plus their aggregated totals,
// optionally limited to a startDate/endDate range.
func (h *Handler) Summary(tier stats.Tier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := stats.RecordQuery{}

		start := r.URL.Query().Get("startDate")
		end := r.URL.Query().Get("endDate")
		if start != "" && end != "" {
			rng, err := stats.ParseDateRange(start, end)
			if err != nil {
				writeError(w, http.StatusBadRequest, "Invalid date range", err)
				return
			}
			q.Range = &rng
		}

		records, err := h.Store.Find(r.Context(), tier, q)
		if err != nil {
			h.writeDomainError(w, tier, "Failed to load summary", err)
			return
		}
		writeJSON(w, http.StatusOK, SummaryResponse{
			Stats:  NewStatDTOs(records),
			Totals: NewTotalsDTO(stats.Sum(records)),
		})
	}
}

// =============================================================================
// EXPORT HANDLER
// =============================================================================

// ExportStats streams the combined N1+N2 totals as an xlsx attachment,
// optionally limited to a startDate/endDate range.
func (h *Handler) ExportStats(w http.ResponseWriter, r *http.Request) {
	var rng *stats.DateRange
	start := r.URL.Query().Get("startDate")
	end := r.URL.Query().Get("endDate")
	if start != "" && end != "" {
		parsed, err := stats.ParseDateRange(start, end)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date range", err)
			return
		}
		rng = &parsed
	}

	var combined []stats.DailyRecord
	for _, tier := range stats.Tiers() {
		records, err := h.Store.Find(r.Context(), tier, stats.RecordQuery{Range: rng, Ascending: true})
		if err != nil {
			h.writeDomainError(w, tier, "Failed to load records for export", err)
			return
		}
		combined = append(combined, records...)
	}

	totals := stats.Sum(combined)

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", workbook.SummaryFileName(rng)))
	if err := workbook.WriteSummary(w, totals); err != nil {
		// Headers are already gone; all we can do is log.
		h.Log.WithError(err).Error("export write failed")
	}
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func (h *Handler) writeDomainError(w http.ResponseWriter, tier stats.Tier, message string, err error) {
	switch {
	case stats.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case stats.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.Log.WithFields(logrus.Fields{"tier": tier}).WithError(err).Error(message)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
