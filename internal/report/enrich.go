package report

import (
	"fmt"
	"time"

	"github.com/AssasinWolf/reporteria-tecnica-clientes/internal/dataset"
)

const periodLayout = "2006-01"

// Row is one enriched record: categorical fields normalized with their
// sentinels applied, plus the derived fields every view consumes. Rows are
// built fresh per request; the cached base table is never touched.
type Row struct {
	Ticket       string
	Replica      string
	Technician   string
	Client       string
	Status       string
	Commune      string
	BusinessArea string
	Amount       float64

	CreatedAt   *time.Time
	FinalizedAt *time.Time
	ClosedAt    *time.Time

	// EffectiveEnd is finalized-at falling back to closed-at and drives the
	// duration. Period is the month of closed-at falling back to finalized-at.
	// The two fallback orders are deliberately opposite; see DESIGN.md.
	EffectiveEnd *time.Time
	DurationMin  float64
	Period       string
}

// enrich derives the normalized row set for one request from the cached base
// table. Pure: the input is read, never written.
func enrich(tickets []dataset.Ticket) []Row {
	rows := make([]Row, 0, len(tickets))
	for _, t := range tickets {
		r := Row{
			Ticket:       fillRaw(t.ID, fillTicket),
			Replica:      fillRaw(t.ReplicaID, fillTicket),
			Technician:   fillNormalize(t.Technician, fillTechnician),
			Client:       fillNormalize(t.Client, fillClient),
			Status:       fillNormalize(t.Status, fillStatus),
			Commune:      fillNormalize(t.Commune, fillCommune),
			BusinessArea: fillNormalize(t.BusinessArea, fillBusinessArea),
			Amount:       t.PartnerAmount,
			CreatedAt:    t.CreatedAt,
			FinalizedAt:  t.FinalizedAt,
			ClosedAt:     t.ClosedAt,
		}

		r.EffectiveEnd = firstTime(t.FinalizedAt, t.ClosedAt)
		if r.CreatedAt != nil && r.EffectiveEnd != nil {
			if minutes := r.EffectiveEnd.Sub(*r.CreatedAt).Minutes(); minutes > 0 {
				r.DurationMin = minutes
			}
		}

		if p := firstTime(t.ClosedAt, t.FinalizedAt); p != nil {
			r.Period = p.Format(periodLayout)
		} else {
			r.Period = noPeriod
		}

		rows = append(rows, r)
	}
	return rows
}

func fillRaw(value, sentinel string) string {
	if value == "" {
		return sentinel
	}
	return value
}

func firstTime(candidates ...*time.Time) *time.Time {
	for _, t := range candidates {
		if t != nil {
			return t
		}
	}
	return nil
}

// formatDuration renders a minute total as "HH:MM" by floor division; hours
// are not capped at 24.
func formatDuration(minutes float64) string {
	total := int(minutes)
	if total < 0 {
		total = 0
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
