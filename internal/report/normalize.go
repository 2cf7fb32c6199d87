package report

import (
	"strings"
	"unicode"
)

// Sentinel categories substituted for missing values before normalization.
// Each mirrors the source vocabulary for its own field.
const (
	fillTechnician   = "Sin Técnico"
	fillClient       = "Sin Cliente"
	fillStatus       = "Sin Estado"
	fillCommune      = "Sin Comuna"
	fillBusinessArea = "Sin Area_negocio"
	fillTicket       = "SIN_TICKET"
	noPeriod         = "Sin Fecha"
)

var separatorReplacer = strings.NewReplacer("_", " ", "-", " ")

// Normalize canonicalizes a free-text value: underscores and hyphens become
// spaces, every token gets an upper-case first letter and lower-case rest,
// and runs of whitespace collapse to single spaces. Empty input stays empty.
func Normalize(s string) string {
	tokens := strings.Fields(separatorReplacer.Replace(s))
	for i, token := range tokens {
		runes := []rune(strings.ToLower(token))
		runes[0] = unicode.ToUpper(runes[0])
		tokens[i] = string(runes)
	}
	return strings.Join(tokens, " ")
}

// fillNormalize substitutes the field sentinel for a missing value and then
// normalizes, so stored data and caller-supplied filters compare equal.
func fillNormalize(value, sentinel string) string {
	if strings.TrimSpace(value) == "" {
		value = sentinel
	}
	return Normalize(value)
}
