package tailoring

import (
	"fmt"
	"strings"

	"github.com/nicktperez/resume-tailor/internal/types"
)

// toneGuidance maps each tone option to a prompt directive.
var toneGuidance = map[string]string{
	types.ToneProfessional: "Adopt a polished, executive tone that feels confident yet approachable.",
	types.ToneFriendly:     "Use a warm, collaborative voice while staying professional and clear.",
	types.ToneBold:         "Lean into an energetic, results-driven tone that spotlights ambitious achievements.",
}

var seniorityGuidance = map[string]string{
	types.SeniorityEntry:  "Emphasize transferable skills, coursework, internships, and early wins suited for an entry-level candidate.",
	types.SeniorityMid:    "Balance strategic contributions with hands-on execution that a mid-level professional is expected to demonstrate.",
	types.SenioritySenior: "Highlight leadership, vision, cross-functional impact, and decision-making expected from senior talent.",
}

var formatGuidance = map[string]string{
	types.FormatTraditional: "Use a traditional chronological structure with clearly separated roles and bullet points.",
	types.FormatModern:      "Use a modern, accomplishment-led layout that foregrounds impact statements and key wins.",
	types.FormatCompact:     "Keep sections concise and skimmable so the resume comfortably fits on a single page.",
}

// BuildPrompt assembles the rewrite prompt from the sanitized inputs and
// personalization options. The prompt instructs the model to return JSON
// with exactly the four result fields.
func BuildPrompt(jobDescription, resume string, req *types.GenerateRequest) string {
	var b strings.Builder

	b.WriteString("You are an expert resume writer. Respond with a single JSON object containing exactly these fields: ")
	b.WriteString(`"tailoredResume" (string), "matchedKeywords" (array of strings), "missingSkills" (array of strings), "suggestedImprovements" (array of strings). `)
	b.WriteString("The tailored resume must be concise, achievement-focused, and formatted in Markdown so it can be pasted directly into an ATS.\n\n")

	fmt.Fprintf(&b, "Job description:\n%s\n\n", jobDescription)
	fmt.Fprintf(&b, "Candidate resume:\n%s\n\n", resume)

	b.WriteString("Personalization targets:\n")
	fmt.Fprintf(&b, "- %s\n", toneGuidance[req.Tone])
	fmt.Fprintf(&b, "- %s\n", seniorityGuidance[req.Seniority])
	fmt.Fprintf(&b, "- %s\n\n", formatGuidance[req.Format])

	b.WriteString("Rewrite requirements:\n")
	b.WriteString("- Mirror the most important keywords, tools, and priorities from the job description.\n")
	b.WriteString("- Use Markdown with clear section headings: Summary, Experience, Skills, Education.\n")
	b.WriteString("- Keep bullet points concise, achievement-focused, and supported by metrics when possible.\n")
	b.WriteString("- Maintain ATS-friendly formatting with consistent spacing and capitalization.\n")
	if req.IncludeCoverLetter {
		b.WriteString(`- After the resume, add a new section titled "## Cover Letter" with 2-3 short paragraphs that extend the same tone and connect the candidate to the role.` + "\n")
	} else {
		b.WriteString("- Do not include a cover letter or mention one unless explicitly asked.\n")
	}
	b.WriteString("- Ensure the final document reads cohesively and feels written by one person.\n\n")

	b.WriteString("Also identify which keywords from the job description are reflected in the rewrite, which skills are still missing, and provide practical suggestions the candidate can act on to further tailor the resume.")

	return b.String()
}
