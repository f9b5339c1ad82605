package assistant

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// chatSystemInstruction frames every chat exchange. The closing line is part
// of the product contract: answers must always point the user to a doctor.
const chatSystemInstruction = `You are an AI medical assistant (not a doctor).
Provide:
- Likely diseases (max 2)
- Suggested diet
- Recommended workouts
- Precautions
End with: "Consult a doctor for professional advice."`

// minRemedyLength filters headings, blank bullets and stray fragments out of
// model replies. Only lines longer than this survive.
const minRemedyLength = 10

// listMarkers are the numbering and bullet prefixes models put in front of
// list items. Two-digit markers come first so "10." is not half-stripped.
var listMarkers = []string{
	"10.", "1.", "2.", "3.", "4.", "5.", "6.", "7.", "8.", "9.",
	"10)", "1)", "2)", "3)", "4)", "5)", "6)", "7)", "8)", "9)",
	"-", "•", "*",
}

// buildSimplifyPrompt asks the model to rewrite database remedies without
// changing their meaning, and to answer with nothing but a numbered list.
func buildSimplifyPrompt(disease string, originals []string) string {
	var numbered strings.Builder
	for i, remedy := range originals {
		fmt.Fprintf(&numbered, "%d. %s\n", i+1, remedy)
	}

	return fmt.Sprintf(`You are a medical content simplifier. I have some home remedies from a traditional database for '%s'.
Your task: Rewrite these remedies to be:
- Clear and concise (one sentence each)
- Easy to understand
- Action-oriented (start with verbs like "Drink", "Apply", "Mix", etc.)
- Keep the same meaning and ingredients

Original remedies:
%s
Return EXACTLY %d simplified remedies in this format:
1. [simplified remedy 1]
2. [simplified remedy 2]
3. [simplified remedy 3]
...

DO NOT add extra remedies. DO NOT add explanations. Just the numbered list.`,
		disease, numbered.String(), len(originals))
}

// buildGeneratePrompt asks the model for five remedies for a health issue
// the database does not cover, primed with sample rows for style.
func buildGeneratePrompt(disease string, samples []string) string {
	var examples strings.Builder
	for _, sample := range samples {
		fmt.Fprintf(&examples, "- %s\n", sample)
	}

	return fmt.Sprintf(`You are a traditional medicine expert.
Here are some example remedies from our database:
%s
Now, generate exactly 5 practical home remedies for '%s' using natural ingredients.
Each remedy should be:
- One clear sentence
- Action-oriented (start with "Drink", "Apply", "Mix", etc.)
- Use common household items
- Be safe and traditional

Format: Just list the remedies numbered 1-5, one per line.`,
		examples.String(), disease)
}

// parseRemedyList extracts remedy sentences from a model reply: one line per
// remedy, list markers stripped, lines too short to be remedies dropped.
func parseRemedyList(text string) []string {
	var remedies []string
	for _, line := range strings.Split(text, "\n") {
		clean := strings.TrimSpace(line)
		for _, marker := range listMarkers {
			if strings.HasPrefix(clean, marker) {
				clean = strings.TrimSpace(strings.TrimPrefix(clean, marker))
				break
			}
		}
		if utf8.RuneCountInString(clean) > minRemedyLength {
			remedies = append(remedies, clean)
		}
	}
	return remedies
}
