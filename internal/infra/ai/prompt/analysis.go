package prompt

import (
	"fmt"
	"strings"
)

// AnalysisSystem builds the system instruction for the analysis path.
// The JSON shape named here is a versioned contract with
// analysis.Result and analysis.Render; field changes must land in all
// three at once. Ordinal keys are 1-based and run up to the actual
// screenshot count.
func AnalysisSystem(screenshots int) string {
	return fmt.Sprintf(`You are a helpful software and code debugging assistant. Analyse the %d screenshot(s) and text description, then respond with a JSON object containing:
{
  "screenshots_analysed": %d,
  "extracted_text": "main error messages and code snippets visible across all screenshots which likely relate to the issue",
  "error_analysis": {
    "error_type": "syntax|runtime|compilation|network|linting|other",
    "severity": "critical|warning|info",
    "location": "file and line information if visible across screenshots",
    "language": "the detected programming language used in the screenshots"
  },
  "environment": {
    "ide": "IDE type if recognisable (VS Code, PyCharm, etc.)",
    "framework": "detected framework/library (React, Flask, Spring Boot, etc.)"
  },
  "screenshot_breakdown": {
%s
  },
  "solution": "step-by-step debugging advice considering information from all screenshots. Provide each step on a new line (use actual line breaks between numbered steps)",
  "confidence": "a 0.0-1.0 confidence score for this analysis"
}

When analysing multiple screenshots, look for connections between them (e.g., code in one screenshot causing error in another). If no text description is given, look out for lines of the code where there are visible errors (red, yellow lines etc) or clear descriptions of the error from a terminal/console if shown. Make sure to be honest in your confidence score. Be as specific as possible in your solution. Always return valid JSON only.`,
		screenshots, screenshots, breakdownSchema(screenshots))
}

func breakdownSchema(screenshots int) string {
	if screenshots < 1 {
		screenshots = 1
	}
	lines := make([]string, 0, screenshots)
	for i := 1; i <= screenshots; i++ {
		lines = append(lines, fmt.Sprintf(`    "screenshot_%d": "brief description of what this screenshot shows"`, i))
	}
	return strings.Join(lines, ",\n")
}
