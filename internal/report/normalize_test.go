package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"underscores become spaces", "juan_perez", "Juan Perez"},
		{"hyphens become spaces", "Maria-Lopez", "Maria Lopez"},
		{"mixed case collapses", "EN PROCESO", "En Proceso"},
		{"repeated whitespace collapses", "  los   angeles ", "Los Angeles"},
		{"accented first letter", "ñuñoa", "Ñuñoa"},
		{"field sentinel is stable", "Sin Técnico", "Sin Técnico"},
		{"area sentinel", "Sin Area_negocio", "Sin Area Negocio"},
		{"all sentinel is stable", "TODOS", "Todos"},
		{"empty stays empty", "", ""},
		{"separators only", "_-_", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Normalize(tc.input))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	for _, input := range []string{"juan_perez", "Sin Técnico", "a-b_c", "ñandú azul"} {
		once := Normalize(input)
		assert.Equal(t, once, Normalize(once), "input %q", input)
	}
}

func TestFillNormalize(t *testing.T) {
	t.Run("missing value takes the sentinel", func(t *testing.T) {
		assert.Equal(t, "Sin Cliente", fillNormalize("", fillClient))
		assert.Equal(t, "Sin Cliente", fillNormalize("   ", fillClient))
	})

	t.Run("present value is normalized", func(t *testing.T) {
		assert.Equal(t, "Acme Chile", fillNormalize("acme_chile", fillClient))
	})
}
