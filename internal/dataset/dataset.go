package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrDataSource indicates the backing file is missing or unreadable.
var ErrDataSource = errors.New("data source unavailable")

// Column names of the source file.
const (
	ColTicket       = "ticket"
	ColTicketReplik = "ticket_replika"
	ColTechnician   = "tecnico"
	ColClient       = "cliente"
	ColStatus       = "estatus"
	ColCommune      = "comuna"
	ColBusinessArea = "area_negocio"
	ColAmount       = "monto_partner"
	ColCreatedAt    = "fechahora_creacion"
	ColScheduledAt  = "fechahora_agendamiento"
	ColAttendedAt   = "fechahora_atencion"
	ColFinalizedAt  = "fechahora_finalizacion"
	ColClosedAt     = "fechahora_cerrado"
)

// Ticket is one row of the source table. Text fields hold the raw cell value
// ("" when missing), timestamps are nil when missing or unparsable, and the
// amount is already coerced to a finite number (0 when malformed).
type Ticket struct {
	ID            string
	ReplicaID     string
	Technician    string
	Client        string
	Status        string
	Commune       string
	BusinessArea  string
	PartnerAmount float64
	CreatedAt     *time.Time
	ScheduledAt   *time.Time
	AttendedAt    *time.Time
	FinalizedAt   *time.Time
	ClosedAt      *time.Time
}

// Table is a parsed dataset snapshot plus the set of columns the source file
// actually carried, so consumers can tell an absent column from empty cells.
type Table struct {
	Rows    []Ticket
	columns map[string]bool
}

// NewTable builds a Table from already-parsed rows, declaring which source
// columns are present. Used by consumers that assemble tables directly.
func NewTable(rows []Ticket, columns ...string) Table {
	cols := make(map[string]bool, len(columns))
	for _, c := range columns {
		cols[c] = true
	}
	return Table{Rows: rows, columns: cols}
}

// AllColumns lists every column of the canonical source layout.
func AllColumns() []string {
	return []string{
		ColTicket, ColTicketReplik, ColTechnician, ColClient, ColStatus,
		ColCommune, ColBusinessArea, ColAmount, ColCreatedAt, ColScheduledAt,
		ColAttendedAt, ColFinalizedAt, ColClosedAt,
	}
}

// HasColumn reports whether the source file carried the named column.
func (t Table) HasColumn(name string) bool {
	return t.columns[name]
}

// Store loads the source file at most once and serves the parsed table to
// every request. A failed load is not cached: the next call retries.
type Store struct {
	path   string
	logger *zap.Logger

	mu     sync.Mutex
	table  Table
	loaded bool
}

// NewStore creates a Store for the given file path.
func NewStore(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger.Named("dataset")}
}

// Load returns the cached table, reading and parsing the backing file on
// first use. The mutex makes the first load single-flight: concurrent callers
// block until the file has been read exactly once.
func (s *Store) Load(ctx context.Context) (Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.table, nil
	}
	if err := ctx.Err(); err != nil {
		return Table{}, err
	}

	table, err := readFile(s.path)
	if err != nil {
		s.logger.Error("dataset load failed", zap.String("path", s.path), zap.Error(err))
		return Table{}, fmt.Errorf("%w: %v", ErrDataSource, err)
	}

	s.table = table
	s.loaded = true
	s.logger.Info("dataset loaded",
		zap.String("path", s.path),
		zap.Int("rows", len(table.Rows)))
	return s.table, nil
}

func readFile(path string) (Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return Table{}, fmt.Errorf("%s: missing header row", path)
	}

	idx := make(map[string]int, len(records[0]))
	columns := make(map[string]bool, len(records[0]))
	for i, name := range records[0] {
		name = strings.ToLower(strings.TrimSpace(name))
		idx[name] = i
		columns[name] = true
	}

	cell := func(row []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	rows := make([]Ticket, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		rows = append(rows, Ticket{
			ID:            cell(record, ColTicket),
			ReplicaID:     cell(record, ColTicketReplik),
			Technician:    cell(record, ColTechnician),
			Client:        cell(record, ColClient),
			Status:        cell(record, ColStatus),
			Commune:       cell(record, ColCommune),
			BusinessArea:  cell(record, ColBusinessArea),
			PartnerAmount: parseAmount(cell(record, ColAmount)),
			CreatedAt:     parseTimestamp(cell(record, ColCreatedAt)),
			ScheduledAt:   parseTimestamp(cell(record, ColScheduledAt)),
			AttendedAt:    parseTimestamp(cell(record, ColAttendedAt)),
			FinalizedAt:   parseTimestamp(cell(record, ColFinalizedAt)),
			ClosedAt:      parseTimestamp(cell(record, ColClosedAt)),
		})
	}

	return Table{Rows: rows, columns: columns}, nil
}

// parseAmount coerces a raw cell to a finite amount. Malformed or non-finite
// values degrade to 0 rather than failing the load.
func parseAmount(raw string) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02-01-2006 15:04:05",
	"02/01/2006 15:04:05",
}

// parseTimestamp returns nil for empty or unparsable cells; a bad date is
// "missing", never an error.
func parseTimestamp(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}
