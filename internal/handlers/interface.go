package handlers

import (
	"context"
	"time"

	"github.com/AssasinWolf/reporteria-tecnica-clientes/internal/report"
)

// Cacher defines the interface for cache operations.
type Cacher interface {
	Close() error
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// ReportService defines the core query operations the HTTP layer exposes.
type ReportService interface {
	TechnicianSummaries(ctx context.Context) ([]report.TechnicianSummary, error)
	ClientSummaries(ctx context.Context) ([]report.ClientSummary, error)
	TechnicianClientDetails(ctx context.Context) ([]report.TechnicianClientDetail, error)
	StatusCounts(ctx context.Context) ([]report.StatusCount, error)
	Metrics(ctx context.Context) (report.GlobalMetrics, error)
	FilterOptions(ctx context.Context, sel report.Selection) (report.FilterOptions, error)
	Combined(ctx context.Context, sel report.Selection) (report.CombinedReport, error)
	TicketDetails(ctx context.Context, sel report.DetailSelection) ([]report.TicketDetail, error)
}
