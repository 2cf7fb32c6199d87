package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/AssasinWolf/reporteria-tecnica-clientes/internal/dataset"
	"github.com/AssasinWolf/reporteria-tecnica-clientes/internal/report"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	defaultCacheDuration  = 10 * time.Minute
	defaultRequestTimeout = 10 * time.Second
)

type cacheKey string

const (
	cacheKeyTechnicianSummary cacheKey = "http:resumen_tecnicos"
	cacheKeyClientSummary     cacheKey = "http:resumen_clientes"
	cacheKeyTechnicianDetail  cacheKey = "http:detalle_tecnicos"
	cacheKeyStatusCounts      cacheKey = "http:estado_solicitud"
	cacheKeyMetrics           cacheKey = "http:metricas_generales"
	cacheKeyFilterOptions     cacheKey = "http:filtros_dinamicos"
	cacheKeyCombined          cacheKey = "http:filtrado_combinado"
	cacheKeyTicketDetails     cacheKey = "http:tickets_detalle"
)

// Handlers serves the reporting API over HTTP with read-through response
// caching.
type Handlers struct {
	reports  ReportService
	cache    Cacher
	logger   *zap.Logger
	sfGroup  singleflight.Group
	cacheTTL time.Duration
}

// New initializes the HTTP handlers.
func New(reports ReportService, cache Cacher, logger *zap.Logger, ttl time.Duration) *Handlers {
	if reports == nil {
		panic("nil ReportService provided to handlers.New")
	}
	if ttl <= 0 {
		ttl = defaultCacheDuration
	}
	return &Handlers{
		reports:  reports,
		cache:    cache,
		logger:   logger.Named("http-handler"),
		cacheTTL: ttl,
	}
}

// Routes registers every endpoint of the reporting API.
func (h *Handlers) Routes(r chi.Router) {
	r.Get("/resumen_tecnicos", h.TechnicianSummaries)
	r.Get("/resumen_clientes", h.ClientSummaries)
	r.Get("/detalle_tecnicos", h.TechnicianClientDetails)
	r.Get("/estado_solicitud", h.StatusCounts)
	r.Get("/metricas_generales", h.Metrics)
	r.Get("/filtros_dinamicos", h.FilterOptions)
	r.Get("/filtrado_combinado", h.Combined)
	r.Get("/tickets_detalle", h.TicketDetails)
	r.Get("/healthz", h.Health)
}

// selectionFromQuery builds the shared four-dimension selection from the
// cliente/estado/tecnico/fecha query parameters.
func selectionFromQuery(r *http.Request) report.Selection {
	q := r.URL.Query()
	return report.Selection{
		Client:     report.NewFilter(q.Get("cliente")),
		Status:     report.NewFilter(q.Get("estado")),
		Technician: report.NewFilter(q.Get("tecnico")),
		Period:     report.NewPeriodFilter(q.Get("fecha")),
	}
}

func selectionKey(prefix cacheKey, sel report.Selection) string {
	return fmt.Sprintf("%s:%s:%s:%s:%s",
		prefix, sel.Client, sel.Status, sel.Technician, sel.Period)
}

func (h *Handlers) TechnicianSummaries(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	result, err := findAndCache(ctx, h.cache, &h.sfGroup, string(cacheKeyTechnicianSummary), h.cacheTTL, h.logger,
		func(fetchCtx context.Context) ([]report.TechnicianSummary, error) {
			return h.reports.TechnicianSummaries(fetchCtx)
		})
	if err != nil {
		h.respondError(ctx, w, "resumen_tecnicos", "Error al procesar resumen por técnico", err)
		return
	}
	h.writeJSON(w, result)
}

func (h *Handlers) ClientSummaries(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	result, err := findAndCache(ctx, h.cache, &h.sfGroup, string(cacheKeyClientSummary), h.cacheTTL, h.logger,
		func(fetchCtx context.Context) ([]report.ClientSummary, error) {
			return h.reports.ClientSummaries(fetchCtx)
		})
	if err != nil {
		h.respondError(ctx, w, "resumen_clientes", "Error al procesar resumen por cliente", err)
		return
	}
	h.writeJSON(w, result)
}

func (h *Handlers) TechnicianClientDetails(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	result, err := findAndCache(ctx, h.cache, &h.sfGroup, string(cacheKeyTechnicianDetail), h.cacheTTL, h.logger,
		func(fetchCtx context.Context) ([]report.TechnicianClientDetail, error) {
			return h.reports.TechnicianClientDetails(fetchCtx)
		})
	if err != nil {
		h.respondError(ctx, w, "detalle_tecnicos", "Error al procesar detalle por técnico", err)
		return
	}
	h.writeJSON(w, result)
}

func (h *Handlers) StatusCounts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	result, err := findAndCache(ctx, h.cache, &h.sfGroup, string(cacheKeyStatusCounts), h.cacheTTL, h.logger,
		func(fetchCtx context.Context) ([]report.StatusCount, error) {
			return h.reports.StatusCounts(fetchCtx)
		})
	if err != nil {
		h.respondError(ctx, w, "estado_solicitud", "Error al procesar estado de solicitudes", err)
		return
	}
	h.writeJSON(w, result)
}

func (h *Handlers) Metrics(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	result, err := findAndCache(ctx, h.cache, &h.sfGroup, string(cacheKeyMetrics), h.cacheTTL, h.logger,
		func(fetchCtx context.Context) (report.GlobalMetrics, error) {
			return h.reports.Metrics(fetchCtx)
		})
	if err != nil {
		h.respondError(ctx, w, "metricas_generales", "Error al calcular métricas generales", err)
		return
	}
	h.writeJSON(w, result)
}

func (h *Handlers) FilterOptions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	sel := selectionFromQuery(r)
	key := selectionKey(cacheKeyFilterOptions, sel)

	result, err := findAndCache(ctx, h.cache, &h.sfGroup, key, h.cacheTTL, h.logger,
		func(fetchCtx context.Context) (report.FilterOptions, error) {
			return h.reports.FilterOptions(fetchCtx, sel)
		})
	if err != nil {
		h.respondError(ctx, w, "filtros_dinamicos", "Error al generar filtros dinámicos", err)
		return
	}
	h.writeJSON(w, result)
}

func (h *Handlers) Combined(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	sel := selectionFromQuery(r)
	key := selectionKey(cacheKeyCombined, sel)

	result, err := findAndCache(ctx, h.cache, &h.sfGroup, key, h.cacheTTL, h.logger,
		func(fetchCtx context.Context) (report.CombinedReport, error) {
			return h.reports.Combined(fetchCtx, sel)
		})
	if err != nil {
		h.respondError(ctx, w, "filtrado_combinado", "Error al aplicar filtro combinado", err)
		return
	}
	h.writeJSON(w, result)
}

func (h *Handlers) TicketDetails(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), defaultRequestTimeout)
	defer cancel()

	q := r.URL.Query()
	sel := report.DetailSelection{
		Technician: report.NewFilter(q.Get("tecnico")),
		Client:     report.NewFilter(q.Get("cliente")),
		Commune:    report.NewFilter(q.Get("comuna")),
		Area:       report.NewFilter(q.Get("area")),
		Period:     report.NewPeriodFilter(q.Get("fecha")),
	}
	key := fmt.Sprintf("%s:%s:%s:%s:%s:%s",
		cacheKeyTicketDetails, sel.Technician, sel.Client, sel.Commune, sel.Area, sel.Period)

	result, err := findAndCache(ctx, h.cache, &h.sfGroup, key, h.cacheTTL, h.logger,
		func(fetchCtx context.Context) ([]report.TicketDetail, error) {
			return h.reports.TicketDetails(fetchCtx, sel)
		})
	if err != nil {
		h.respondError(ctx, w, "tickets_detalle", "Error al obtener tickets individuales", err)
		return
	}
	h.writeJSON(w, result)
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, map[string]string{"status": "ok"})
}

func (h *Handlers) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("response encode failed", zap.Error(err))
	}
}

// respondError logs the full failure server-side and returns only the
// operation-scoped message to the caller.
func (h *Handlers) respondError(ctx context.Context, w http.ResponseWriter, op, detail string, err error) {
	status := http.StatusInternalServerError

	switch ctx.Err() {
	case context.Canceled:
		h.logger.Warn("request canceled", zap.String("op", op))
		status = http.StatusServiceUnavailable
	case context.DeadlineExceeded:
		h.logger.Warn("request timeout", zap.String("op", op))
		status = http.StatusGatewayTimeout
	default:
		switch {
		case errors.Is(err, dataset.ErrDataSource):
			h.logger.Error("data source failure", zap.String("op", op), zap.Error(err))
			status = http.StatusServiceUnavailable
		case errors.Is(err, report.ErrComputation):
			h.logger.Error("computation failure", zap.String("op", op), zap.Error(err))
		default:
			h.logger.Error("unexpected error", zap.String("op", op), zap.Error(err))
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
