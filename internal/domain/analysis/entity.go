package analysis

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ErrorAnalysis classifies the error visible in the screenshots.
type ErrorAnalysis struct {
	Type     string `json:"error_type"` // syntax|runtime|compilation|network|linting|other
	Severity string `json:"severity"`   // critical|warning|info
	Location string `json:"location"`
	Language string `json:"language"`
}

// Environment is the model's guess at the user's tooling.
type Environment struct {
	IDE       string `json:"ide"`
	Framework string `json:"framework"`
}

// Confidence is a 0.0-1.0 score. Models return it either as a number or
// as a quoted numeric string, so it unmarshals from both.
type Confidence float64

func (c *Confidence) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		str = strings.TrimSpace(str)
		if str == "" {
			*c = 0
			return nil
		}
		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return fmt.Errorf("confidence %q is not numeric: %w", str, err)
		}
		*c = Confidence(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*c = Confidence(f)
	return nil
}

// Result is the structured analysis the model returns for one batch of
// screenshots. Field names are a versioned contract shared with the
// system prompt and the renderer; changing one requires changing all
// three in lockstep.
type Result struct {
	ScreenshotsAnalysed int               `json:"screenshots_analysed"`
	ExtractedText       string            `json:"extracted_text"`
	ErrorAnalysis       ErrorAnalysis     `json:"error_analysis"`
	Environment         Environment       `json:"environment"`
	ScreenshotBreakdown map[string]string `json:"screenshot_breakdown"`
	Solution            string            `json:"solution"`
	Confidence          Confidence        `json:"confidence"`
}
