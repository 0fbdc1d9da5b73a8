// Package tailoring implements the resume generation pipeline: request
// validation, quota enforcement, input sanitization, cache deduplication,
// the retried call to the rewrite service, response validation, and
// persistence.
package tailoring

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/nicktperez/resume-tailor/internal/cache"
	"github.com/nicktperez/resume-tailor/internal/llm"
	"github.com/nicktperez/resume-tailor/internal/types"
)

// FreeGenerationLimit is the number of generations a non-Pro user gets.
const FreeGenerationLimit = 2

// DefaultCacheTTL is how long a generation result is served from cache.
const DefaultCacheTTL = time.Hour

// GenerationParams carries everything the persistence collaborator needs to
// record one completed generation.
type GenerationParams struct {
	UserID             uuid.UUID
	JobDescription     string
	OriginalResume     string
	GeneratedResume    string
	Insights           *types.Insights
	Tone               string
	Seniority          string
	Format             string
	IncludeCoverLetter bool
}

// Store is the persistence collaborator. SaveGeneration must create the
// generation record and increment the user's usage counter atomically:
// both apply or neither does.
type Store interface {
	SaveGeneration(ctx context.Context, gen *GenerationParams) error
}

// Options tunes the orchestrator. Zero values fall back to defaults.
type Options struct {
	Retry     RetryPolicy
	CacheTTL  time.Duration
	FreeLimit int
}

// Orchestrator runs the generation pipeline. Concurrent identical requests
// for the same cache key are coalesced through a single-flight group, so a
// burst of duplicates performs one upstream call, one persisted record, and
// one quota unit.
type Orchestrator struct {
	llm       llm.Client
	store     Store
	cache     *cache.Cache[*types.GenerateResponse]
	retry     RetryPolicy
	cacheTTL  time.Duration
	freeLimit int
	validate  *validator.Validate
	flight    singleflight.Group
}

// NewOrchestrator wires the pipeline's collaborators together.
func NewOrchestrator(client llm.Client, store Store, c *cache.Cache[*types.GenerateResponse], opts Options) *Orchestrator {
	if opts.Retry.MaxAttempts == 0 {
		opts.Retry = DefaultRetryPolicy()
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.FreeLimit == 0 {
		opts.FreeLimit = FreeGenerationLimit
	}
	return &Orchestrator{
		llm:       client,
		store:     store,
		cache:     c,
		retry:     opts.Retry,
		cacheTTL:  opts.CacheTTL,
		freeLimit: opts.FreeLimit,
		validate:  validator.New(),
	}
}

// Generate runs the full pipeline for one authenticated user. The boolean
// reports whether the response came from cache; cached responses consume no
// quota and trigger no upstream call.
func (o *Orchestrator) Generate(ctx context.Context, user *types.User, req *types.GenerateRequest) (*types.GenerateResponse, bool, error) {
	if err := o.validateRequest(req); err != nil {
		return nil, false, err
	}

	// Sanitize before anything touches the text: the cache key must be
	// computed over the sanitized form.
	jobDescription := SanitizeInput(req.JobDescription)
	resume := SanitizeInput(req.Resume)

	if len(jobDescription) < 20 {
		return nil, false, &ValidationError{Field: "jobDescription", Message: "Please provide a detailed job description."}
	}
	if len(resume) < 50 {
		return nil, false, &ValidationError{Field: "resume", Message: "Please paste the full text of your resume."}
	}

	if !user.IsPro && user.ResumeCount >= o.freeLimit {
		return nil, false, &QuotaExceededError{Limit: o.freeLimit}
	}

	key := CacheKey(user.ID, jobDescription, resume, req)
	if cached, ok := o.cache.Get(key); ok {
		log.Printf("[tailor] cache hit user=%s", user.ID)
		return cached, true, nil
	}

	value, err, shared := o.flight.Do(key, func() (any, error) {
		return o.generateUncached(ctx, user, req, key, jobDescription, resume)
	})
	if err != nil {
		return nil, false, err
	}
	if shared {
		log.Printf("[tailor] coalesced duplicate request user=%s", user.ID)
	}
	return value.(*types.GenerateResponse), shared, nil
}

// generateUncached is the expensive half of the pipeline: upstream call,
// validation, cache write, then the persistence transaction. Side effects
// are strictly ordered; an earlier-committed cache entry is left in place
// when persistence fails, since a cache entry alone cannot corrupt billing
// state.
func (o *Orchestrator) generateUncached(ctx context.Context, user *types.User, req *types.GenerateRequest, key, jobDescription, resume string) (*types.GenerateResponse, error) {
	prompt := BuildPrompt(jobDescription, resume, req)

	var raw string
	attempts, err := o.retry.Do(ctx, func(ctx context.Context) error {
		out, callErr := o.llm.GenerateJSON(ctx, prompt)
		if callErr != nil {
			return callErr
		}
		if strings.TrimSpace(out) == "" {
			return fmt.Errorf("rewrite service returned empty response")
		}
		raw = out
		return nil
	})
	if err != nil {
		log.Printf("[tailor] rewrite failed user=%s attempts=%d err=%v", user.ID, attempts, err)
		return nil, &UpstreamError{Attempts: attempts, Cause: err}
	}

	tailored, insights, err := ParseResult(raw)
	if err != nil {
		if ire, ok := err.(*InvalidResponseError); ok {
			log.Printf("[tailor] invalid rewrite response user=%s raw=%q err=%v", user.ID, ire.RawPrefix, ire.Cause)
		}
		return nil, err
	}

	response := &types.GenerateResponse{Result: tailored, Insights: insights}
	o.cache.Set(key, response, o.cacheTTL)

	err = o.store.SaveGeneration(ctx, &GenerationParams{
		UserID:             user.ID,
		JobDescription:     jobDescription,
		OriginalResume:     resume,
		GeneratedResume:    tailored,
		Insights:           insights,
		Tone:               req.Tone,
		Seniority:          req.Seniority,
		Format:             req.Format,
		IncludeCoverLetter: req.IncludeCoverLetter,
	})
	if err != nil {
		return nil, &PersistError{Cause: err}
	}

	log.Printf("[tailor] generation completed user=%s attempts=%d resume_len=%d keywords=%d",
		user.ID, attempts, len(tailored), len(insights.MatchedKeywords))
	return response, nil
}

// validateRequest checks the request shape, reporting the first violation
// with its field name.
func (o *Orchestrator) validateRequest(req *types.GenerateRequest) error {
	if err := o.validate.Struct(req); err != nil {
		if ves, ok := err.(validator.ValidationErrors); ok && len(ves) > 0 {
			ve := ves[0]
			return &ValidationError{Field: ve.Field(), Message: fmt.Sprintf("failed %s validation", ve.Tag())}
		}
		return &ValidationError{Message: "invalid request"}
	}
	return nil
}
