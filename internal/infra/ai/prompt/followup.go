package prompt

import "fmt"

// NoPriorAnalysis is substituted when a follow-up arrives before any
// successful analysis, so the model cannot fabricate one.
const NoPriorAnalysis = "No previous screenshot analysis available. Please analyse screenshot(s) first."

// AnalysisContext wraps the stored analysis as grounding context for a
// follow-up question. The screenshot count is restated for emphasis.
func AnalysisContext(resultJSON string, screenshots int) string {
	return fmt.Sprintf(`Previous screenshot analysis context (%d screenshot(s) analysed):

%s

This analysis was performed on the user's screenshot(s). Reference this context when answering the follow-up questions.`,
		screenshots, resultJSON)
}

// FollowUpSystem builds the system instruction for the conversation
// path: grounding context first, then the prior conversation verbatim.
func FollowUpSystem(context, conversation string) string {
	return fmt.Sprintf(`You are a helpful software and code debugging assistant. The user is asking a follow-up question about a previous code analysis:

%s

previous conversation:

%s

Provide natural, conversational responses. Be helpful and detailed but don't repeat information unnecessarily. If referring to the previous analysis, be specific about what you're referencing.`,
		context, conversation)
}
