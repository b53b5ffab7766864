package quiz

import (
	"encoding/json"
	"fmt"
)

// buildPrompt embeds the stream and accumulated answers, instructing the
// model to either ask one more question or emit the final recommendation,
// as a single JSON object.
func buildPrompt(stream string, answers map[string]string) (string, error) {
	answersJSON, err := json.MarshalIndent(answers, "", "  ")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`You are an adaptive career quiz assistant. The user selected stream: %s.
Here are the answers so far: %s

Based on these answers, decide what to do next:
- If you need to ask a new question to refine understanding, suggest a new question with 2-3 options.
- If enough answers are given, provide a final personalized career recommendation.

When providing the final recommendation, make sure to:
- Give a brief summary of the suggested career path.
- Include a list of **study lines or degree programs** to pursue (e.g., B.Tech in Computer Science, MBBS, B.Sc in Chemistry, BBA, BA in Psychology, etc.).
- Write these degree options in **bullet points**, and add a short reason why each option is good for the student.

Respond only as JSON in this format:
{
  "type": "question" or "result",
  "question": "Next question text" (if type is question),
  "options": ["Option 1", "Option 2", ...] (if type is question),
  "result": "Your final career suggestion text with study lines and reasons" (if type is result)
}`, stream, string(answersJSON)), nil
}
