package tailoring

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicktperez/resume-tailor/internal/cache"
	"github.com/nicktperez/resume-tailor/internal/types"
)

const validPayload = `{
	"tailoredResume": "# Summary\nTailored resume body",
	"matchedKeywords": ["Go"],
	"missingSkills": ["Kubernetes"],
	"suggestedImprovements": ["Quantify impact"]
}`

// fakeLLM implements llm.Client with scripted responses.
type fakeLLM struct {
	mu        sync.Mutex
	calls     int
	responses []string // consumed in order; last one repeats
	errs      []error
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	return f.responses[i], nil
}

func (f *fakeLLM) Close() error { return nil }

func (f *fakeLLM) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeStore records SaveGeneration calls and can be told to fail.
type fakeStore struct {
	mu    sync.Mutex
	saved []*GenerationParams
	err   error
}

func (f *fakeStore) SaveGeneration(ctx context.Context, gen *GenerationParams) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, gen)
	return nil
}

func (f *fakeStore) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func freeUser() *types.User {
	return &types.User{ID: uuid.New(), IsPro: false, ResumeCount: 0}
}

func validRequest() *types.GenerateRequest {
	return &types.GenerateRequest{
		JobDescription: "We need a Go engineer comfortable with Postgres and HTTP APIs.",
		Resume:         "Experienced engineer. Built services in Go, maintained Postgres schemas, shipped APIs.",
		Tone:           types.ToneProfessional,
		Seniority:      types.SeniorityMid,
		Format:         types.FormatModern,
	}
}

func newTestOrchestrator(t *testing.T, client *fakeLLM, store *fakeStore) *Orchestrator {
	t.Helper()
	c := cache.New[*types.GenerateResponse](0)
	t.Cleanup(c.Stop)
	return NewOrchestrator(client, store, c, Options{
		Retry: RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, AttemptTimeout: time.Second},
	})
}

func TestGenerate_SuccessPersistsAndCaches(t *testing.T) {
	client := &fakeLLM{responses: []string{validPayload}}
	store := &fakeStore{}
	o := newTestOrchestrator(t, client, store)
	user := freeUser()

	resp, fromCache, err := o.Generate(context.Background(), user, validRequest())
	require.NoError(t, err)
	assert.False(t, fromCache)
	assert.Equal(t, "# Summary\nTailored resume body", resp.Result)
	assert.Equal(t, []string{"Go"}, resp.Insights.MatchedKeywords)
	assert.Equal(t, 1, client.callCount())
	require.Equal(t, 1, store.saveCount())
	assert.Equal(t, user.ID, store.saved[0].UserID)

	// Identical repeat before TTL expiry: served from cache, no second
	// upstream call, no second persisted record.
	resp2, fromCache, err := o.Generate(context.Background(), user, validRequest())
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, resp, resp2)
	assert.Equal(t, 1, client.callCount())
	assert.Equal(t, 1, store.saveCount())
}

func TestGenerate_QuotaExceededBeforeUpstream(t *testing.T) {
	client := &fakeLLM{responses: []string{validPayload}}
	store := &fakeStore{}
	o := newTestOrchestrator(t, client, store)

	user := freeUser()
	user.ResumeCount = FreeGenerationLimit

	_, _, err := o.Generate(context.Background(), user, validRequest())
	var qe *QuotaExceededError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, 0, client.callCount(), "quota rejection must precede any upstream call")
	assert.Equal(t, 0, store.saveCount())
}

func TestGenerate_ProUserBypassesQuota(t *testing.T) {
	client := &fakeLLM{responses: []string{validPayload}}
	store := &fakeStore{}
	o := newTestOrchestrator(t, client, store)

	user := freeUser()
	user.IsPro = true
	user.ResumeCount = 99

	_, _, err := o.Generate(context.Background(), user, validRequest())
	require.NoError(t, err)
}

func TestGenerate_UpstreamEmptyOnAllAttempts(t *testing.T) {
	client := &fakeLLM{responses: []string{"", "", ""}}
	store := &fakeStore{}
	o := newTestOrchestrator(t, client, store)

	_, _, err := o.Generate(context.Background(), freeUser(), validRequest())
	var ue *UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, 3, ue.Attempts)
	assert.Equal(t, 3, client.callCount())
	assert.Equal(t, 0, store.saveCount(), "upstream failure must not consume a quota unit")
}

func TestGenerate_TransientFailureRecovers(t *testing.T) {
	client := &fakeLLM{
		responses: []string{"", validPayload},
		errs:      []error{fmt.Errorf("transport error"), nil},
	}
	store := &fakeStore{}
	o := newTestOrchestrator(t, client, store)

	resp, _, err := o.Generate(context.Background(), freeUser(), validRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Result)
	assert.Equal(t, 2, client.callCount())
}

func TestGenerate_InvalidResponseNotPersisted(t *testing.T) {
	client := &fakeLLM{responses: []string{`{"unexpected": true}`}}
	store := &fakeStore{}
	o := newTestOrchestrator(t, client, store)

	_, _, err := o.Generate(context.Background(), freeUser(), validRequest())
	var ire *InvalidResponseError
	require.ErrorAs(t, err, &ire)
	assert.Equal(t, 0, store.saveCount())
}

func TestGenerate_PersistFailureSurfaces(t *testing.T) {
	client := &fakeLLM{responses: []string{validPayload}}
	store := &fakeStore{err: fmt.Errorf("db down")}
	o := newTestOrchestrator(t, client, store)

	_, _, err := o.Generate(context.Background(), freeUser(), validRequest())
	var pe *PersistError
	require.ErrorAs(t, err, &pe, "a computed rewrite with a failed write must not report success")
}

func TestGenerate_ValidationErrors(t *testing.T) {
	client := &fakeLLM{responses: []string{validPayload}}
	store := &fakeStore{}
	o := newTestOrchestrator(t, client, store)

	tests := []struct {
		name      string
		mutate    func(*types.GenerateRequest)
		wantField string
	}{
		{"bad tone", func(r *types.GenerateRequest) { r.Tone = "sassy" }, "Tone"},
		{"bad seniority", func(r *types.GenerateRequest) { r.Seniority = "intern" }, "Seniority"},
		{"bad format", func(r *types.GenerateRequest) { r.Format = "fancy" }, "Format"},
		{"short job description", func(r *types.GenerateRequest) { r.JobDescription = "too short" }, "jobDescription"},
		{"short resume", func(r *types.GenerateRequest) { r.Resume = "tiny" }, "resume"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			_, _, err := o.Generate(context.Background(), freeUser(), req)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
	assert.Equal(t, 0, client.callCount())
}

func TestGenerate_SanitizedVariantsShareCacheEntry(t *testing.T) {
	client := &fakeLLM{responses: []string{validPayload}}
	store := &fakeStore{}
	o := newTestOrchestrator(t, client, store)
	user := freeUser()

	_, _, err := o.Generate(context.Background(), user, validRequest())
	require.NoError(t, err)

	// The same content wrapped in angle brackets and whitespace must
	// sanitize down to the same cache key.
	req := validRequest()
	req.JobDescription = "  <b>" + req.JobDescription + "</b>  "
	_, fromCache, err := o.Generate(context.Background(), user, req)
	require.NoError(t, err)
	assert.True(t, fromCache)
	assert.Equal(t, 1, client.callCount())
}

func TestGenerate_ConcurrentIdenticalRequestsCoalesce(t *testing.T) {
	client := &fakeLLM{responses: []string{validPayload}}
	store := &fakeStore{}
	o := newTestOrchestrator(t, client, store)
	user := freeUser()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := o.Generate(context.Background(), user, validRequest())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, client.callCount(), "duplicate in-flight requests share one upstream call")
	assert.Equal(t, 1, store.saveCount(), "a coalesced burst consumes one quota unit")
}
