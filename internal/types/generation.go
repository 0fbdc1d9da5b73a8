package types

import (
	"time"

	"github.com/google/uuid"
)

// Personalization option values accepted by the generation endpoint.
const (
	ToneProfessional = "professional"
	ToneFriendly     = "friendly"
	ToneBold         = "bold"

	SeniorityEntry  = "entry-level"
	SeniorityMid    = "mid-level"
	SenioritySenior = "senior"

	FormatTraditional = "traditional"
	FormatModern      = "modern"
	FormatCompact     = "compact"
)

// GenerateRequest is the body of POST /generate. Either jobDescription or
// jobDescriptionUrl must be supplied; when a URL is given the text is
// extracted server-side before validation. Length minimums apply to the
// sanitized text, so they are enforced by the orchestrator rather than by
// struct tags here.
type GenerateRequest struct {
	JobDescription     string `json:"jobDescription"`
	JobDescriptionURL  string `json:"jobDescriptionUrl,omitempty" validate:"omitempty,url"`
	Resume             string `json:"resume"`
	Tone               string `json:"tone" validate:"required,oneof=professional friendly bold"`
	Seniority          string `json:"seniority" validate:"required,oneof=entry-level mid-level senior"`
	Format             string `json:"format" validate:"required,oneof=traditional modern compact"`
	IncludeCoverLetter bool   `json:"includeCoverLetter"`
}

// Insights are the keyword and skill lists returned alongside a tailored
// resume. List order is whatever the upstream model returned.
type Insights struct {
	MatchedKeywords       []string `json:"matchedKeywords"`
	MissingSkills         []string `json:"missingSkills"`
	SuggestedImprovements []string `json:"suggestedImprovements"`
}

// GenerateResponse is the body of a successful POST /generate.
type GenerateResponse struct {
	Result   string    `json:"result"`
	Insights *Insights `json:"insights"`
}

// GenerationRecord is one persisted generation, as returned by the history
// endpoint. Insights is nil when the stored JSON blob is malformed.
type GenerationRecord struct {
	ID                 uuid.UUID `json:"id"`
	JobDescription     string    `json:"jobDescription"`
	OriginalResume     string    `json:"originalResume"`
	GeneratedResume    string    `json:"generatedResume"`
	Insights           *Insights `json:"insights"`
	Tone               string    `json:"tone"`
	Seniority          string    `json:"seniority"`
	Format             string    `json:"format"`
	IncludeCoverLetter bool      `json:"includeCoverLetter"`
	CreatedAt          time.Time `json:"createdAt"`
}

// DiffRequest is the body of POST /diff. When generationId is set the
// stored record's original and generated resumes are diffed and the inline
// fields are ignored.
type DiffRequest struct {
	Before       string `json:"before"`
	After        string `json:"after"`
	GenerationID string `json:"generationId,omitempty"`
}
