// Package matcher normalizes and compares free-text and numeric answers.
// It is shared by the exam and practice flows.
package matcher

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

// Hebrew niqqud and cantillation marks occupy U+0591..U+05C7 and are
// stripped after NFD decomposition, so pointed and unpointed spellings of
// the same word compare equal.
const (
	niqqudLo = '֑'
	niqqudHi = 'ׇ'
)

// punctuation stripped during normalization. Includes the Hebrew gershayim,
// geresh, maqaf and the common dash variants alongside ASCII punctuation.
const punctuation = ".,;:!?'\"״׳–—־"

// Normalize canonicalizes text for comparison. The pipeline order matters:
// NFD decompose, strip niqqud, strip punctuation, collapse whitespace,
// lowercase, trim.
func Normalize(text string) string {
	decomposed := norm.NFD.String(text)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if r >= niqqudLo && r <= niqqudHi {
			continue
		}
		if strings.ContainsRune(punctuation, r) {
			continue
		}
		b.WriteRune(r)
	}

	collapsed := strings.Join(strings.Fields(b.String()), " ")
	return strings.TrimSpace(strings.ToLower(collapsed))
}

// Matches reports whether two texts are equal after normalization.
func Matches(answer, candidate string) bool {
	return Normalize(answer) == Normalize(candidate)
}

// ParseNumeric extracts a decimal value from text by stripping everything
// except digits, '.' and '-'. A false return means "not numeric": the
// caller should fall back to text comparison, not treat it as an error.
func ParseNumeric(text string) (decimal.Decimal, bool) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(text) {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// NumericMatches reports whether candidate is within tolerance of expected.
// A zero tolerance requires exact equality. Decimal arithmetic keeps
// tolerance boundaries exact (10 vs 10.1 at tolerance 0.1 must match).
func NumericMatches(expected, candidate, tolerance decimal.Decimal) bool {
	if tolerance.IsZero() {
		return expected.Equal(candidate)
	}
	return expected.Sub(candidate).Abs().LessThanOrEqual(tolerance)
}
