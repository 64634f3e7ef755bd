package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{"screenshots_analysed":1,"extracted_text":"NullPointerException","error_analysis":{"error_type":"runtime","severity":"critical","location":"Main.java:42","language":"Java"},"environment":{"ide":"IntelliJ","framework":"none"},"screenshot_breakdown":{"screenshot_1":"shows stack trace"},"solution":"1. Check null\n2. Add guard","confidence":0.82}`

func TestParse(t *testing.T) {
	res, err := Parse(sampleJSON)
	require.NoError(t, err)

	assert.Equal(t, 1, res.ScreenshotsAnalysed)
	assert.Equal(t, "NullPointerException", res.ExtractedText)
	assert.Equal(t, "runtime", res.ErrorAnalysis.Type)
	assert.Equal(t, "critical", res.ErrorAnalysis.Severity)
	assert.Equal(t, "Main.java:42", res.ErrorAnalysis.Location)
	assert.Equal(t, "Java", res.ErrorAnalysis.Language)
	assert.Equal(t, "IntelliJ", res.Environment.IDE)
	assert.Equal(t, "none", res.Environment.Framework)
	assert.Equal(t, "shows stack trace", res.ScreenshotBreakdown["screenshot_1"])
	assert.Equal(t, "1. Check null\n2. Add guard", res.Solution)
	assert.InDelta(t, 0.82, float64(res.Confidence), 1e-9)
}

func TestParseConfidenceAsString(t *testing.T) {
	res, err := Parse(`{"screenshots_analysed":1,"confidence":"0.75"}`)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, float64(res.Confidence), 1e-9)
}

func TestParseConfidenceEmptyString(t *testing.T) {
	res, err := Parse(`{"confidence":""}`)
	require.NoError(t, err)
	assert.Zero(t, float64(res.Confidence))
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "prose", raw: "I could not produce JSON, sorry."},
		{name: "truncated", raw: `{"screenshots_analysed":1,`},
		{name: "empty", raw: ""},
		{name: "bad confidence", raw: `{"confidence":"very sure"}`},
		{name: "trailing prose", raw: `{"screenshots_analysed":1} Hope that helps!`},
		{name: "two documents", raw: `{"screenshots_analysed":1}{"screenshots_analysed":2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse(tt.raw)
			require.Error(t, err)
			assert.Nil(t, res, "malformed output must never yield a partially-trusted result")
		})
	}
}
