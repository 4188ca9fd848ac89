package matcher

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "חיתוך", Normalize("חִיתּוּך"), "strips niqqud")
	assert.Equal(t, "קריאה", Normalize("  קְרִיאָה  "), "strips niqqud and trims")
	assert.Equal(t, "נכון", Normalize("נָכוֹן!"), "strips punctuation")
	assert.Equal(t, "ביתספר", Normalize("בית־ספר"), "maqaf is stripped, not turned into a space")
	assert.Equal(t, "hello world", Normalize("  Hello   WORLD  "))
	assert.Equal(t, "", Normalize(""))
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("חיתוך", "חִיתּוּך"))
	assert.True(t, Matches("מזרח", "מִזְרָח"))
	assert.True(t, Matches("נכון!", "נכון"))
	assert.True(t, Matches("Answer", "  answer "))
	assert.False(t, Matches("חיתוך", "קריאה"))
}

func TestParseNumeric(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want string
	}{
		{"56", "56"},
		{"7.5", "7.5"},
		{"-10", "-10"},
		{"42 ₪", "42"},
		{"3,000", "3000"},
	} {
		d, ok := ParseNumeric(tc.in)
		require.True(t, ok, "input %q", tc.in)
		assert.Equal(t, tc.want, d.String(), "input %q", tc.in)
	}

	_, ok := ParseNumeric("abc")
	assert.False(t, ok)
	_, ok = ParseNumeric("")
	assert.False(t, ok)
	_, ok = ParseNumeric("--..")
	assert.False(t, ok)
}

func TestNumericMatches(t *testing.T) {
	d := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	assert.True(t, NumericMatches(d("10"), d("10"), d("0")), "zero tolerance, exact")
	assert.False(t, NumericMatches(d("10"), d("10.0001"), d("0")), "zero tolerance, near miss")
	assert.True(t, NumericMatches(d("10"), d("10.05"), d("0.1")))
	assert.True(t, NumericMatches(d("10"), d("10.1"), d("0.1")), "exact tolerance boundary")
	assert.False(t, NumericMatches(d("10"), d("11"), d("0.5")))
	assert.True(t, NumericMatches(d("10"), d("9.9"), d("0.1")), "tolerance is symmetric")
}
