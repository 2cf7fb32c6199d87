package mocks

import (
	"context"
	"errors"

	"github.com/AssasinWolf/reporteria-tecnica-clientes/internal/report"
)

// MockReportService is a function-field mock of the report service interface
// for testing the handler layer.
type MockReportService struct {
	TechnicianSummariesFunc     func(ctx context.Context) ([]report.TechnicianSummary, error)
	ClientSummariesFunc         func(ctx context.Context) ([]report.ClientSummary, error)
	TechnicianClientDetailsFunc func(ctx context.Context) ([]report.TechnicianClientDetail, error)
	StatusCountsFunc            func(ctx context.Context) ([]report.StatusCount, error)
	MetricsFunc                 func(ctx context.Context) (report.GlobalMetrics, error)
	FilterOptionsFunc           func(ctx context.Context, sel report.Selection) (report.FilterOptions, error)
	CombinedFunc                func(ctx context.Context, sel report.Selection) (report.CombinedReport, error)
	TicketDetailsFunc           func(ctx context.Context, sel report.DetailSelection) ([]report.TicketDetail, error)
}

var errNotImplemented = errors.New("mock method not implemented")

func (m *MockReportService) TechnicianSummaries(ctx context.Context) ([]report.TechnicianSummary, error) {
	if m.TechnicianSummariesFunc != nil {
		return m.TechnicianSummariesFunc(ctx)
	}
	return nil, errNotImplemented
}

func (m *MockReportService) ClientSummaries(ctx context.Context) ([]report.ClientSummary, error) {
	if m.ClientSummariesFunc != nil {
		return m.ClientSummariesFunc(ctx)
	}
	return nil, errNotImplemented
}

func (m *MockReportService) TechnicianClientDetails(ctx context.Context) ([]report.TechnicianClientDetail, error) {
	if m.TechnicianClientDetailsFunc != nil {
		return m.TechnicianClientDetailsFunc(ctx)
	}
	return nil, errNotImplemented
}

func (m *MockReportService) StatusCounts(ctx context.Context) ([]report.StatusCount, error) {
	if m.StatusCountsFunc != nil {
		return m.StatusCountsFunc(ctx)
	}
	return nil, errNotImplemented
}

func (m *MockReportService) Metrics(ctx context.Context) (report.GlobalMetrics, error) {
	if m.MetricsFunc != nil {
		return m.MetricsFunc(ctx)
	}
	return report.GlobalMetrics{}, errNotImplemented
}

func (m *MockReportService) FilterOptions(ctx context.Context, sel report.Selection) (report.FilterOptions, error) {
	if m.FilterOptionsFunc != nil {
		return m.FilterOptionsFunc(ctx, sel)
	}
	return report.FilterOptions{}, errNotImplemented
}

func (m *MockReportService) Combined(ctx context.Context, sel report.Selection) (report.CombinedReport, error) {
	if m.CombinedFunc != nil {
		return m.CombinedFunc(ctx, sel)
	}
	return report.CombinedReport{}, errNotImplemented
}

func (m *MockReportService) TicketDetails(ctx context.Context, sel report.DetailSelection) ([]report.TicketDetail, error) {
	if m.TicketDetailsFunc != nil {
		return m.TicketDetailsFunc(ctx, sel)
	}
	return nil, errNotImplemented
}
