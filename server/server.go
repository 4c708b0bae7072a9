package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"elena/residency_alerts/logic"
	"elena/residency_alerts/metrics"
	"elena/residency_alerts/model"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Loader returns the employees as of now
type Loader interface {
	Now() time.Time
	LoadEmployees(ctx context.Context, now time.Time) []model.Employee
}

// EmployeeView is an employee with its display fields
type EmployeeView struct {
	model.Employee
	Tier               model.Tier `json:"tier"`
	Status             string     `json:"status"`
	CardExpiryText     string     `json:"card_expiry_text"`
	DisplayName        string     `json:"display_name"`
	DisplayJob         string     `json:"display_job"`
	DisplayNationality string     `json:"display_nationality"`
	DisplayCardType    string     `json:"display_card_type"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Handler serves the read-only dashboard API
type Handler struct {
	loader  Loader
	metrics *metrics.Metrics
	log     logrus.FieldLogger
}

// New creates the handler
func New(loader Loader, m *metrics.Metrics, log logrus.FieldLogger) *Handler {
	return &Handler{loader: loader, metrics: m, log: log}
}

// Router builds the chi routes
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/employees", h.listEmployees)
		r.Get("/employees/{staffNo}", h.getEmployee)
		r.Get("/summary", h.summary)
		r.Get("/reports/{kind}", h.previewReport)
		r.Get("/export", h.export)
	})

	if h.metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(h.metrics.Registry, promhttp.HandlerOpts{}))
	}

	return r
}

func (h *Handler) listEmployees(w http.ResponseWriter, r *http.Request) {
	now := h.loader.Now()
	employees := h.loader.LoadEmployees(r.Context(), now)

	selected, err := logic.SelectView(employees, r.URL.Query().Get("view"), r.URL.Query().Get("q"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	views := make([]EmployeeView, 0, len(selected))
	for _, e := range selected {
		views = append(views, newEmployeeView(e))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) getEmployee(w http.ResponseWriter, r *http.Request) {
	now := h.loader.Now()
	employees := h.loader.LoadEmployees(r.Context(), now)

	employee, ok := logic.FindByStaffNo(employees, chi.URLParam(r, "staffNo"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "employee not found"})
		return
	}
	writeJSON(w, http.StatusOK, newEmployeeView(employee))
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	now := h.loader.Now()
	employees := h.loader.LoadEmployees(r.Context(), now)
	writeJSON(w, http.StatusOK, logic.Summarize(employees))
}

func (h *Handler) previewReport(w http.ResponseWriter, r *http.Request) {
	kind, err := model.ParseReportKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	now := h.loader.Now()
	employees := h.loader.LoadEmployees(r.Context(), now)

	report, ok := logic.GenerateReport(kind, employees, logic.ArabicLongDate(now))
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// export downloads the selected view as a workbook
func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	now := h.loader.Now()
	employees := h.loader.LoadEmployees(r.Context(), now)

	selected, err := logic.SelectView(employees, r.URL.Query().Get("view"), r.URL.Query().Get("q"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if len(selected) == 0 {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no data to export"})
		return
	}

	var buf bytes.Buffer
	if err := logic.WriteWorkbook(&buf, selected); err != nil {
		h.log.WithError(err).Error("failed to build export")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to build export"})
		return
	}

	w.Header().Set("Content-Type", logic.XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", logic.ExportFileName(now, logic.ExportXLSX)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("request served")
	})
}

func newEmployeeView(e model.Employee) EmployeeView {
	tier := model.TierOf(e.DaysUntilExpiry)
	return EmployeeView{
		Employee:           e,
		Tier:               tier,
		Status:             logic.StatusLabel(tier),
		CardExpiryText:     logic.FormatExpiry(e),
		DisplayName:        logic.TitleCase(e.Name),
		DisplayJob:         logic.TitleCase(e.Job),
		DisplayNationality: logic.TitleCase(e.Nationality),
		DisplayCardType:    logic.TitleCase(e.CardType),
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
