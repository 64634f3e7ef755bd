package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

const breakdownKeyPrefix = "screenshot_"

var severitySymbols = map[string]string{
	"critical": "🔴",
	"warning":  "🟡",
	"info":     "🔵",
}

// Render converts a Result into the markdown shown to the user. It is
// pure and deterministic: the same Result always produces the same
// bytes. It never panics; rendering is the last step before the user
// sees anything, so a bad value turns into a formatted error string
// instead of aborting the response.
func Render(res *Result) string {
	if res == nil {
		return "Error formatting the display: missing analysis data"
	}

	severity := res.ErrorAnalysis.Severity
	if severity == "" {
		severity = "unknown"
	}
	symbol, ok := severitySymbols[severity]
	if !ok {
		symbol = "⚪"
	}

	errType := orDefault(res.ErrorAnalysis.Type, "Unknown")
	location := orDefault(res.ErrorAnalysis.Location, "Not specified")
	language := orDefault(res.ErrorAnalysis.Language, "Not detected")
	ide := orDefault(res.Environment.IDE, "Not detected")
	framework := orDefault(res.Environment.Framework, "Not detected")
	extracted := orDefault(res.ExtractedText, "No text extracted")
	solution := orDefault(res.Solution, "No solution provided")

	count := res.ScreenshotsAnalysed
	if count == 0 {
		count = 1
	}

	percent := int(math.Round(float64(res.Confidence) * 100))
	if percent < 0 {
		percent = 0
	} else if percent > 100 {
		percent = 100
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s Error Analysis\n\n", symbol)
	fmt.Fprintf(&b, "**Type:** %s Error  \n", title(errType))
	fmt.Fprintf(&b, "**Severity:** %s  \n", title(severity))
	fmt.Fprintf(&b, "**Location:** %s  \n", location)
	fmt.Fprintf(&b, "**Language:** %s  \n", language)
	fmt.Fprintf(&b, "**Screenshots Analysed:** %d\n\n", count)
	b.WriteString("## 🖥️ Environment\n\n")
	fmt.Fprintf(&b, "**IDE:** %s  \n", ide)
	fmt.Fprintf(&b, "**Framework:** %s\n", framework)
	b.WriteString(breakdownSection(res.ScreenshotBreakdown))
	b.WriteString("\n## 📝 Extracted Text\n\n")
	b.WriteString(extracted)
	b.WriteString("\n\n## 💡 Solution\n\n")
	b.WriteString(solution)
	fmt.Fprintf(&b, "\n\n**Confidence:** %d%%", percent)
	return b.String()
}

// breakdownSection lists per-screenshot descriptions in ascending
// ordinal order, independent of map iteration order. Keys follow the
// internal "screenshot_<n>" pattern; anything else sorts after the
// ordinals, lexically. Empty descriptions are skipped and an all-empty
// breakdown emits nothing.
func breakdownSection(breakdown map[string]string) string {
	keys := make([]string, 0, len(breakdown))
	for key, description := range breakdown {
		if description != "" {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, iOK := ordinal(keys[i])
		nj, jOK := ordinal(keys[j])
		switch {
		case iOK && jOK:
			return ni < nj
		case iOK:
			return true
		case jOK:
			return false
		default:
			return keys[i] < keys[j]
		}
	})

	var b strings.Builder
	b.WriteString("\n## Screenshot Analysis\n\n")
	for _, key := range keys {
		label := strings.ReplaceAll(strings.TrimPrefix(key, breakdownKeyPrefix), "_", " ")
		fmt.Fprintf(&b, "**Screenshot %s:** %s  \n", title(label), breakdown[key])
	}
	return b.String()
}

func ordinal(key string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(key, breakdownKeyPrefix))
	if err != nil {
		return 0, false
	}
	return n, true
}

// title upper-cases the first letter of each space-separated word.
func title(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
