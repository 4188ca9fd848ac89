package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalScore90(t *testing.T) {
	assert.Equal(t, 0, TotalScore90(0, 0), "empty attempt scores 0, no division")
	assert.Equal(t, 90, TotalScore90(40, 40))
	assert.Equal(t, 81, TotalScore90(36, 40), "90×36/40 = 81")
	assert.Equal(t, 41, TotalScore90(9, 20), "90×9/20 = 40.5 rounds half-up to 41")
	assert.Equal(t, 0, TotalScore90(0, 40))
	assert.Equal(t, 2, TotalScore90(1, 40), "90/40 = 2.25 rounds down to 2")
}

func TestAccuracy(t *testing.T) {
	assert.Equal(t, 0.0, Accuracy(0, 0))
	assert.Equal(t, 100.0, Accuracy(7, 7))
	assert.InDelta(t, 66.666, Accuracy(2, 3), 0.001)
}

func TestSection(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(9*time.Minute + 30*time.Second)

	res := Section([]bool{true, false, true, true}, &start, &end)
	assert.Equal(t, 3, res.Correct)
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 75.0, res.Accuracy)
	require.NotNil(t, res.TimeSpentSeconds)
	assert.Equal(t, int64(570), *res.TimeSpentSeconds)
}

func TestSectionWithoutTimestamps(t *testing.T) {
	res := Section(nil, nil, nil)
	assert.Equal(t, 0, res.Total)
	assert.Equal(t, 0.0, res.Accuracy)
	assert.Nil(t, res.TimeSpentSeconds, "time omitted when boundaries unknown")

	start := time.Now()
	res = Section([]bool{true}, &start, nil)
	assert.Nil(t, res.TimeSpentSeconds, "still-open section has no time spent")
}
