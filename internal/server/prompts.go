package server

import (
	"fmt"
	"strings"
)

// disclaimer is appended to every analysis so responses are never mistaken
// for engineering sign-off.
const disclaimer = "This explanation is general information, not a technical assessment."

const systemPrompt = "You are a semiconductor industry expert. Explain clearly, in accessible language, without excessive technical depth."

func languageClause(language string) string {
	language = strings.TrimSpace(language)
	if language == "" {
		language = "English"
	}
	return fmt.Sprintf("Respond in %s.", language)
}

func csvPrompt(digest, language string) string {
	return fmt.Sprintf(`Analyze the following manufacturing dataset summary. Describe what the data appears to track, notable patterns or outliers in the numeric columns, and what a production or yield engineer should look into next.

%s
%s End with: %q`, digest, languageClause(language), disclaimer)
}

func interpretPrompt(text, language string) string {
	return fmt.Sprintf(`Interpret the following shop-floor note or report in a semiconductor manufacturing context. Explain what it likely means, which process area is involved, and sensible next steps.

Note: %s

%s End with: %q`, text, languageClause(language), disclaimer)
}

func convertPrompt(text, convertType, language string) string {
	var form string
	switch convertType {
	case "email":
		form = "a polite, professional email to a colleague, with a subject line"
	case "update":
		form = "a concise status update suitable for a shift handover report"
	}
	return fmt.Sprintf(`Rewrite the following rough note as %s. Preserve the facts, fix the tone, and keep it brief.

Note: %s

%s`, form, text, languageClause(language))
}

func imagePrompt(language string) string {
	return fmt.Sprintf(`Analyze this image and provide:

1. What semiconductor-related object is visible (e.g. wafer, wafer map, packaged chip, photomask, FOUP, probe card)
2. What it is used for
3. Its role in the semiconductor manufacturing process

%s End with: %q`, languageClause(language), disclaimer)
}

func explainPrompt(term, context, language string) string {
	p := fmt.Sprintf("Give a practical, example-driven explanation of the term %q for someone new to the semiconductor industry.", term)
	if strings.TrimSpace(context) != "" {
		p += fmt.Sprintf("\n\nReference definition: %s", context)
	}
	return p + "\n\n" + languageClause(language)
}

func relatedPrompt(term, language string) string {
	return fmt.Sprintf(`List 3 to 5 semiconductor industry terms closely related to %q. Return ONLY a JSON array of strings, no prose. %s`, term, languageClause(language))
}
