package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/AssasinWolf/reporteria-tecnica-clientes/internal/dataset"
	"go.uber.org/zap"
)

// ErrComputation indicates a report could not be derived from the dataset,
// typically because a required column is absent from the source file.
var ErrComputation = errors.New("report computation failed")

const dateLayout = "2006-01-02"

// Service computes every report view over the cached dataset. All operations
// work on a freshly enriched snapshot; the cached base table is never mutated.
type Service struct {
	store  DatasetStore
	logger *zap.Logger
}

// NewService creates a report Service.
func NewService(store DatasetStore, logger *zap.Logger) *Service {
	if store == nil {
		panic("store must not be nil")
	}
	if logger == nil {
		l, _ := zap.NewProduction()
		logger = l
	}
	return &Service{store: store, logger: logger.Named("report")}
}

// snapshot loads the cached table, verifies the columns the caller is about
// to consume, and returns the enriched per-request row set.
func (s *Service) snapshot(ctx context.Context, cols ...string) ([]Row, error) {
	table, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, col := range cols {
		if !table.HasColumn(col) {
			return nil, fmt.Errorf("%w: missing column %q", ErrComputation, col)
		}
	}
	return enrich(table.Rows), nil
}

// TechnicianSummaries returns per-technician request counts and total service
// time, most requested first.
func (s *Service) TechnicianSummaries(ctx context.Context) ([]TechnicianSummary, error) {
	rows, err := s.snapshot(ctx,
		dataset.ColTechnician, dataset.ColTicket,
		dataset.ColCreatedAt, dataset.ColFinalizedAt, dataset.ColClosedAt)
	if err != nil {
		return nil, err
	}
	return technicianSummaries(rows), nil
}

// ClientSummaries returns per-client request counts and rounded total cost,
// most requested first.
func (s *Service) ClientSummaries(ctx context.Context) ([]ClientSummary, error) {
	rows, err := s.snapshot(ctx,
		dataset.ColClient, dataset.ColTicket, dataset.ColAmount)
	if err != nil {
		return nil, err
	}
	return clientSummaries(rows), nil
}

// TechnicianClientDetails returns the technician×client breakdown.
func (s *Service) TechnicianClientDetails(ctx context.Context) ([]TechnicianClientDetail, error) {
	rows, err := s.snapshot(ctx,
		dataset.ColTechnician, dataset.ColClient,
		dataset.ColCommune, dataset.ColBusinessArea, dataset.ColAmount,
		dataset.ColCreatedAt, dataset.ColFinalizedAt, dataset.ColClosedAt)
	if err != nil {
		return nil, err
	}
	return technicianClientDetails(rows), nil
}

// StatusCounts returns distinct-ticket counts per status. This standalone
// view counts the secondary (replica) identifier; the combined engine counts
// the primary one.
func (s *Service) StatusCounts(ctx context.Context) ([]StatusCount, error) {
	rows, err := s.snapshot(ctx, dataset.ColStatus, dataset.ColTicketReplik)
	if err != nil {
		return nil, err
	}
	return statusCounts(rows, func(r Row) string { return r.Replica }), nil
}

// Metrics returns dataset-wide totals.
func (s *Service) Metrics(ctx context.Context) (GlobalMetrics, error) {
	rows, err := s.snapshot(ctx,
		dataset.ColTicket, dataset.ColAmount,
		dataset.ColCreatedAt, dataset.ColFinalizedAt, dataset.ColClosedAt)
	if err != nil {
		return GlobalMetrics{}, err
	}
	return globalMetrics(rows), nil
}

// FilterOptions resolves, for each filter dimension, the values still
// reachable once every OTHER active filter is applied. A dimension's own
// selection never narrows its own option list.
func (s *Service) FilterOptions(ctx context.Context, sel Selection) (FilterOptions, error) {
	rows, err := s.snapshot(ctx,
		dataset.ColClient, dataset.ColStatus, dataset.ColTechnician,
		dataset.ColFinalizedAt, dataset.ColClosedAt)
	if err != nil {
		return FilterOptions{}, err
	}

	opts := FilterOptions{
		Clients:     optionsFor(rows, withoutClient(sel), func(r Row) string { return r.Client }),
		Statuses:    optionsFor(rows, withoutStatus(sel), func(r Row) string { return r.Status }),
		Technicians: optionsFor(rows, withoutTechnician(sel), func(r Row) string { return r.Technician }),
		Periods:     optionsFor(rows, withoutPeriod(sel), func(r Row) string { return r.Period }),
	}

	s.logger.Debug("resolved filter options",
		zap.Int("clients", len(opts.Clients)),
		zap.Int("statuses", len(opts.Statuses)),
		zap.Int("technicians", len(opts.Technicians)),
		zap.Int("periods", len(opts.Periods)))
	return opts, nil
}

// optionsFor collects the sorted distinct values of one dimension from the
// subset matching the (self-cleared) selection.
func optionsFor(rows []Row, sel Selection, get func(Row) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range rows {
		if !sel.matches(r) {
			continue
		}
		v := get(r)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func withoutClient(sel Selection) Selection     { sel.Client = Filter{}; return sel }
func withoutStatus(sel Selection) Selection     { sel.Status = Filter{}; return sel }
func withoutTechnician(sel Selection) Selection { sel.Technician = Filter{}; return sel }
func withoutPeriod(sel Selection) Selection     { sel.Period = Filter{}; return sel }

// Combined applies the selection once and recomputes all five views from that
// single filtered snapshot, so the returned views describe the same
// population. Status counts here use the primary ticket identifier.
func (s *Service) Combined(ctx context.Context, sel Selection) (CombinedReport, error) {
	rows, err := s.snapshot(ctx,
		dataset.ColTicket, dataset.ColTechnician, dataset.ColClient,
		dataset.ColStatus, dataset.ColCommune, dataset.ColBusinessArea,
		dataset.ColAmount,
		dataset.ColCreatedAt, dataset.ColFinalizedAt, dataset.ColClosedAt)
	if err != nil {
		return CombinedReport{}, err
	}

	filtered := filterRows(rows, sel)
	s.logger.Debug("combined filter applied",
		zap.Int("rows", len(filtered)),
		zap.String("cliente", sel.Client.String()),
		zap.String("estado", sel.Status.String()),
		zap.String("tecnico", sel.Technician.String()),
		zap.String("fecha", sel.Period.String()))

	return CombinedReport{
		TechnicianSummaries: technicianSummaries(filtered),
		ClientSummaries:     clientSummaries(filtered),
		Details:             technicianClientDetails(filtered),
		StatusCounts:        statusCounts(filtered, func(r Row) string { return r.Ticket }),
		Metrics:             globalMetrics(filtered),
	}, nil
}

// TicketDetails returns the row-level listing for the given optional filters.
// An empty dataset, an absent client column, or zero matches all yield an
// empty list, never an error.
func (s *Service) TicketDetails(ctx context.Context, sel DetailSelection) ([]TicketDetail, error) {
	table, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(table.Rows) == 0 || !table.HasColumn(dataset.ColClient) {
		return []TicketDetail{}, nil
	}

	out := make([]TicketDetail, 0)
	for _, r := range enrich(table.Rows) {
		if !sel.matches(r) {
			continue
		}
		out = append(out, TicketDetail{
			Ticket:      r.Ticket,
			CreatedAt:   formatDate(r.CreatedAt),
			FinalizedAt: formatDate(r.FinalizedAt),
			ClosedAt:    formatDate(r.ClosedAt),
			Duration:    formatDuration(r.DurationMin),
			Amount:      roundAmount(r.Amount),
		})
	}
	return out, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
