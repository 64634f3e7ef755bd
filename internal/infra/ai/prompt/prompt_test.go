package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalysisSystemNamesEveryField(t *testing.T) {
	out := AnalysisSystem(2)

	for _, field := range []string{
		`"screenshots_analysed"`,
		`"extracted_text"`,
		`"error_analysis"`,
		`"error_type"`,
		`"severity"`,
		`"location"`,
		`"language"`,
		`"environment"`,
		`"ide"`,
		`"framework"`,
		`"screenshot_breakdown"`,
		`"solution"`,
		`"confidence"`,
	} {
		assert.Contains(t, out, field)
	}
}

func TestAnalysisSystemOrdinalKeysMatchCount(t *testing.T) {
	out := AnalysisSystem(3)

	assert.Contains(t, out, `"screenshot_1"`)
	assert.Contains(t, out, `"screenshot_2"`)
	assert.Contains(t, out, `"screenshot_3"`)
	assert.NotContains(t, out, `"screenshot_4"`, "ordinal keys must stop at the attachment count")

	assert.Contains(t, out, "Analyse the 3 screenshot(s)")
	assert.Contains(t, out, `"screenshots_analysed": 3`)
}

func TestAnalysisSystemInstructions(t *testing.T) {
	out := AnalysisSystem(2)

	assert.Contains(t, out, "look for connections between them")
	assert.Contains(t, out, "visible errors (red, yellow lines etc)")
	assert.True(t, strings.HasSuffix(out, "Always return valid JSON only."))
}

func TestAnalysisSystemMinimumOneOrdinal(t *testing.T) {
	out := AnalysisSystem(0)
	assert.Contains(t, out, `"screenshot_1"`)
}

func TestAnalysisContext(t *testing.T) {
	out := AnalysisContext(`{"confidence": 0.8}`, 2)

	assert.Contains(t, out, "2 screenshot(s) analysed")
	assert.Contains(t, out, `{"confidence": 0.8}`)
	assert.Contains(t, out, "Reference this context")
}

func TestFollowUpSystem(t *testing.T) {
	out := FollowUpSystem(NoPriorAnalysis, "**You:** q\n\n**Assistant:** a")

	assert.Contains(t, out, NoPriorAnalysis)
	assert.Contains(t, out, "**You:** q")
	assert.Contains(t, out, "previous conversation:")
	assert.Contains(t, out, "debugging assistant")
}
