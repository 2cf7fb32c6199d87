package report

import (
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/AssasinWolf/reporteria-tecnica-clientes/internal/dataset"
	"github.com/stretchr/testify/assert"
)

func tp(year int, month time.Month, day, hour, min int) *time.Time {
	t := time.Date(year, month, day, hour, min, 0, 0, time.UTC)
	return &t
}

func TestEnrichDerivedFields(t *testing.T) {
	t.Run("duration uses finalized falling back to closed", func(t *testing.T) {
		rows := enrich([]dataset.Ticket{
			{ID: "T1", CreatedAt: tp(2024, 3, 1, 10, 0), FinalizedAt: tp(2024, 3, 1, 11, 30), ClosedAt: tp(2024, 3, 1, 13, 0)},
			{ID: "T2", CreatedAt: tp(2024, 3, 1, 10, 0), ClosedAt: tp(2024, 3, 1, 10, 30)},
		})

		assert.Equal(t, 90.0, rows[0].DurationMin)
		assert.Equal(t, 30.0, rows[1].DurationMin)
	})

	t.Run("duration is zero when an endpoint is missing", func(t *testing.T) {
		rows := enrich([]dataset.Ticket{
			{ID: "T1", CreatedAt: tp(2024, 3, 1, 10, 0)},
			{ID: "T2", FinalizedAt: tp(2024, 3, 1, 11, 0)},
			{ID: "T3"},
		})

		for _, r := range rows {
			assert.Equal(t, 0.0, r.DurationMin)
		}
	})

	t.Run("duration never goes negative", func(t *testing.T) {
		rows := enrich([]dataset.Ticket{
			{ID: "T1", CreatedAt: tp(2024, 3, 2, 10, 0), FinalizedAt: tp(2024, 3, 1, 10, 0)},
		})

		assert.Equal(t, 0.0, rows[0].DurationMin)
	})

	t.Run("period uses closed falling back to finalized", func(t *testing.T) {
		rows := enrich([]dataset.Ticket{
			{ID: "T1", FinalizedAt: tp(2024, 3, 31, 23, 0), ClosedAt: tp(2024, 4, 1, 1, 0)},
			{ID: "T2", FinalizedAt: tp(2024, 3, 31, 23, 0)},
			{ID: "T3"},
		})

		// Opposite fallback order from the duration endpoint.
		assert.Equal(t, "2024-04", rows[0].Period)
		assert.Equal(t, "2024-03", rows[1].Period)
		assert.Equal(t, "Sin Fecha", rows[2].Period)
	})

	t.Run("categoricals get sentinels then normalization", func(t *testing.T) {
		rows := enrich([]dataset.Ticket{
			{ID: "T1", Technician: "juan_perez"},
			{},
		})

		assert.Equal(t, "Juan Perez", rows[0].Technician)
		assert.Equal(t, "Sin Cliente", rows[0].Client)
		assert.Equal(t, "Sin Técnico", rows[1].Technician)
		assert.Equal(t, "Sin Estado", rows[1].Status)
		assert.Equal(t, "Sin Comuna", rows[1].Commune)
		assert.Equal(t, "Sin Area Negocio", rows[1].BusinessArea)
		assert.Equal(t, "SIN_TICKET", rows[1].Ticket)
		assert.Equal(t, "SIN_TICKET", rows[1].Replica)
	})

	t.Run("input tickets are not mutated", func(t *testing.T) {
		tickets := []dataset.Ticket{{ID: "T1", Technician: "juan_perez"}}
		_ = enrich(tickets)

		assert.Equal(t, "juan_perez", tickets[0].Technician)
	})
}

// parseDuration inverts formatDuration for the round-trip property.
func parseDuration(s string) int {
	parts := strings.SplitN(s, ":", 2)
	h, _ := strconv.Atoi(parts[0])
	m, _ := strconv.Atoi(parts[1])
	return h*60 + m
}

func TestFormatDurationRoundTrip(t *testing.T) {
	for _, minutes := range []int{0, 1, 59, 60, 61, 90, 1439, 1440, 6000} {
		t.Run(fmt.Sprintf("%d minutes", minutes), func(t *testing.T) {
			formatted := formatDuration(float64(minutes))
			assert.Equal(t, minutes, parseDuration(formatted))
			assert.Equal(t, formatted, formatDuration(float64(parseDuration(formatted))))
		})
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "00:00", formatDuration(0))
	assert.Equal(t, "01:30", formatDuration(90))
	assert.Equal(t, "00:30", formatDuration(30.9))
	assert.Equal(t, "25:00", formatDuration(1500))
	assert.Equal(t, "00:00", formatDuration(-10))
}
