package tailoring

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/nicktperez/resume-tailor/internal/types"
)

// resultSchema is the structural contract the rewrite service must meet.
// Anything beyond structure (coercion, trimming, non-emptiness) is handled
// after the schema check.
const resultSchema = `{
	"type": "object",
	"required": ["tailoredResume"],
	"properties": {
		"tailoredResume": {"type": "string"},
		"matchedKeywords": {"type": "array"},
		"missingSkills": {"type": "array"},
		"suggestedImprovements": {"type": "array"}
	}
}`

var resultSchemaLoader = gojsonschema.NewStringLoader(resultSchema)

// rawPrefix returns the start of a raw payload for diagnostic logging.
func rawPrefix(raw string) string {
	const n = 500
	if len(raw) > n {
		return raw[:n]
	}
	return raw
}

// ParseResult parses and validates the raw upstream payload into a tailored
// resume plus insights. Deviations from the contract are
// InvalidResponseError, never silently defaulted: the payload must be JSON,
// must satisfy resultSchema, and must carry a non-empty tailoredResume
// after trimming. List entries are coerced (numbers stringified, anything
// else non-string dropped), trimmed, and filtered for emptiness; order is
// preserved as returned by the model.
func ParseResult(raw string) (string, *types.Insights, error) {
	var payload map[string]any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return "", nil, &InvalidResponseError{RawPrefix: rawPrefix(raw), Cause: err}
	}

	result, err := gojsonschema.Validate(resultSchemaLoader, gojsonschema.NewGoLoader(payload))
	if err != nil {
		return "", nil, &InvalidResponseError{RawPrefix: rawPrefix(raw), Cause: err}
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return "", nil, &InvalidResponseError{
			RawPrefix: rawPrefix(raw),
			Cause:     fmt.Errorf("schema violations: %s", strings.Join(msgs, "; ")),
		}
	}

	tailored, _ := payload["tailoredResume"].(string)
	tailored = strings.TrimSpace(tailored)
	if tailored == "" {
		return "", nil, &InvalidResponseError{
			RawPrefix: rawPrefix(raw),
			Cause:     fmt.Errorf("tailoredResume is empty"),
		}
	}

	insights := &types.Insights{
		MatchedKeywords:       coerceStringList(payload["matchedKeywords"]),
		MissingSkills:         coerceStringList(payload["missingSkills"]),
		SuggestedImprovements: coerceStringList(payload["suggestedImprovements"]),
	}
	return tailored, insights, nil
}

// coerceStringList converts a decoded JSON array into a clean string list:
// strings are kept, numbers are stringified, everything else is dropped.
// Entries are whitespace-trimmed and empties removed. A missing or non-array
// value yields an empty list.
func coerceStringList(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return []string{}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		switch v := item.(type) {
		case string:
			s = v
		case float64:
			s = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			continue
		}
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
