package tailoring

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/nicktperez/resume-tailor/internal/types"
)

func baseRequest() *types.GenerateRequest {
	return &types.GenerateRequest{
		Tone:               types.ToneProfessional,
		Seniority:          types.SeniorityMid,
		Format:             types.FormatModern,
		IncludeCoverLetter: false,
	}
}

func TestCacheKey_Deterministic(t *testing.T) {
	userID := uuid.New()
	a := CacheKey(userID, "job", "resume", baseRequest())
	b := CacheKey(userID, "job", "resume", baseRequest())
	assert.Equal(t, a, b)
}

func TestCacheKey_PerUserIsolation(t *testing.T) {
	a := CacheKey(uuid.New(), "job", "resume", baseRequest())
	b := CacheKey(uuid.New(), "job", "resume", baseRequest())
	assert.NotEqual(t, a, b, "identical content from different users must not share a key")
}

func TestCacheKey_AnyOptionChangesKey(t *testing.T) {
	userID := uuid.New()
	base := CacheKey(userID, "job", "resume", baseRequest())

	variants := []*types.GenerateRequest{}
	r := baseRequest()
	r.Tone = types.ToneBold
	variants = append(variants, r)
	r = baseRequest()
	r.Seniority = types.SenioritySenior
	variants = append(variants, r)
	r = baseRequest()
	r.Format = types.FormatCompact
	variants = append(variants, r)
	r = baseRequest()
	r.IncludeCoverLetter = true
	variants = append(variants, r)

	for _, v := range variants {
		assert.NotEqual(t, base, CacheKey(userID, "job", "resume", v))
	}
}

func TestCacheKey_ContentChangesKey(t *testing.T) {
	userID := uuid.New()
	base := CacheKey(userID, "job", "resume", baseRequest())
	assert.NotEqual(t, base, CacheKey(userID, "other job", "resume", baseRequest()))
	assert.NotEqual(t, base, CacheKey(userID, "job", "other resume", baseRequest()))
}
