package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullResult() *Result {
	return &Result{
		ScreenshotsAnalysed: 2,
		ExtractedText:       "TypeError: x is undefined",
		ErrorAnalysis: ErrorAnalysis{
			Type:     "runtime",
			Severity: "critical",
			Location: "app.js:17",
			Language: "JavaScript",
		},
		Environment: Environment{
			IDE:       "VS Code",
			Framework: "React",
		},
		ScreenshotBreakdown: map[string]string{
			"screenshot_1": "editor with highlighted line",
			"screenshot_2": "browser console output",
		},
		Solution:   "1. Check the import\n2. Guard against undefined",
		Confidence: 0.9,
	}
}

func TestRenderScenario(t *testing.T) {
	res, err := Parse(sampleJSON)
	require.NoError(t, err)

	out := Render(res)

	for _, want := range []string{
		"🔴",
		"Runtime Error",
		"Main.java:42",
		"IntelliJ",
		"shows stack trace",
		"Check null",
		"82%",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRenderDeterministic(t *testing.T) {
	res := fullResult()
	first := Render(res)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Render(res), "render must be byte-identical across calls")
	}
}

func TestRenderContainsEveryField(t *testing.T) {
	res := fullResult()
	out := Render(res)

	for _, want := range []string{
		"TypeError: x is undefined",
		"app.js:17",
		"JavaScript",
		"VS Code",
		"React",
		"editor with highlighted line",
		"browser console output",
		"1. Check the import",
		"90%",
	} {
		assert.Contains(t, out, want)
	}
}

func TestRenderBreakdownOrdering(t *testing.T) {
	res := fullResult()
	res.ScreenshotBreakdown = map[string]string{
		"screenshot_3": "third",
		"screenshot_1": "first",
		"screenshot_10": "tenth",
		"screenshot_2": "second",
	}

	out := Render(res)

	i1 := strings.Index(out, "**Screenshot 1:**")
	i2 := strings.Index(out, "**Screenshot 2:**")
	i3 := strings.Index(out, "**Screenshot 3:**")
	i10 := strings.Index(out, "**Screenshot 10:**")
	require.NotEqual(t, -1, i1)
	require.NotEqual(t, -1, i2)
	require.NotEqual(t, -1, i3)
	require.NotEqual(t, -1, i10)

	assert.Less(t, i1, i2)
	assert.Less(t, i2, i3)
	assert.Less(t, i3, i10, "ordinals sort numerically, not lexically")
}

func TestRenderSeveritySymbols(t *testing.T) {
	tests := []struct {
		severity string
		symbol   string
		label    string
	}{
		{severity: "critical", symbol: "🔴", label: "**Severity:** Critical"},
		{severity: "warning", symbol: "🟡", label: "**Severity:** Warning"},
		{severity: "info", symbol: "🔵", label: "**Severity:** Info"},
		{severity: "", symbol: "⚪", label: "**Severity:** Unknown"},
		{severity: "bizarre", symbol: "⚪", label: "**Severity:** Bizarre"},
	}

	for _, tt := range tests {
		t.Run("severity "+tt.severity, func(t *testing.T) {
			res := fullResult()
			res.ErrorAnalysis.Severity = tt.severity
			out := Render(res)
			assert.Contains(t, out, tt.symbol)
			assert.Contains(t, out, tt.label)
		})
	}
}

func TestRenderMissingFieldsUsePlaceholders(t *testing.T) {
	out := Render(&Result{})

	for _, want := range []string{
		"**Type:** Unknown Error",
		"**Location:** Not specified",
		"**Language:** Not detected",
		"**IDE:** Not detected",
		"**Framework:** Not detected",
		"No text extracted",
		"No solution provided",
		"**Screenshots Analysed:** 1",
		"**Confidence:** 0%",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "## Screenshot Analysis", "empty breakdown must emit no section")
}

func TestRenderSkipsEmptyDescriptions(t *testing.T) {
	res := fullResult()
	res.ScreenshotBreakdown = map[string]string{
		"screenshot_1": "",
		"screenshot_2": "",
	}
	out := Render(res)
	assert.NotContains(t, out, "## Screenshot Analysis")

	res.ScreenshotBreakdown["screenshot_2"] = "visible one"
	out = Render(res)
	assert.Contains(t, out, "## Screenshot Analysis")
	assert.Contains(t, out, "**Screenshot 2:** visible one")
	assert.NotContains(t, out, "**Screenshot 1:**")
}

func TestRenderConfidenceClampedForDisplay(t *testing.T) {
	res := fullResult()
	res.Confidence = 1.7
	assert.Contains(t, Render(res), "**Confidence:** 100%")

	res.Confidence = -0.4
	assert.Contains(t, Render(res), "**Confidence:** 0%")
}

func TestRenderNil(t *testing.T) {
	out := Render(nil)
	assert.Contains(t, out, "Error formatting the display")
}
