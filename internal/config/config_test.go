package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tzavrishon/prep-backend/internal/model"
)

func TestParseTypeValues(t *testing.T) {
	values := ParseTypeValues("VERBAL_ANALOGY:15,QUANTITATIVE:20")
	assert.Equal(t, 15, values[model.QuestionTypeVerbalAnalogy])
	assert.Equal(t, 20, values[model.QuestionTypeQuantitative])
	assert.Len(t, values, 2)
}

func TestParseTypeValuesSkipsMalformedEntries(t *testing.T) {
	values := ParseTypeValues("VERBAL_ANALOGY:15,BOGUS_TYPE:5,SHAPE_ANALOGY:abc,QUANTITATIVE:-3,INSTRUCTIONS_DIRECTIONS")
	assert.Equal(t, map[model.QuestionType]int{model.QuestionTypeVerbalAnalogy: 15}, values)
}

func TestParseTypeValuesEmpty(t *testing.T) {
	assert.Empty(t, ParseTypeValues(""))
}

func TestSectionFallbacks(t *testing.T) {
	cfg := &Config{
		SectionQuestionCounts: map[model.QuestionType]int{model.QuestionTypeQuantitative: 20},
		SectionDurations:      map[model.QuestionType]int{model.QuestionTypeQuantitative: 900},
	}

	assert.Equal(t, 20, cfg.SectionQuestionCount(model.QuestionTypeQuantitative))
	assert.Equal(t, 900, cfg.SectionDuration(model.QuestionTypeQuantitative))

	assert.Equal(t, DefaultSectionQuestionCount, cfg.SectionQuestionCount(model.QuestionTypeVerbalAnalogy))
	assert.Equal(t, DefaultSectionDurationSeconds, cfg.SectionDuration(model.QuestionTypeVerbalAnalogy))
}
