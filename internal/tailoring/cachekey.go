package tailoring

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	"github.com/nicktperez/resume-tailor/internal/types"
)

// CacheKey derives the deduplication key for a generation request: a
// SHA-256 content hash over the sanitized inputs and every personalization
// option, namespaced by user ID. Namespacing keeps cache entries isolated
// per user; including every option means changing any one of them misses.
// Inputs must already be sanitized so equivalent submissions collide.
func CacheKey(userID uuid.UUID, jobDescription, resume string, req *types.GenerateRequest) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%s\x00%s\x00%t",
		jobDescription, resume, req.Tone, req.Seniority, req.Format, req.IncludeCoverLetter)
	return "resume:generation:" + userID.String() + ":" + hex.EncodeToString(h.Sum(nil))
}
