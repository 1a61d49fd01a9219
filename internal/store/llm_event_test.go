package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEvents(t *testing.T, repo *SQLEventRepo, base time.Time) {
	t.Helper()
	events := []LLMRequestEventData{
		{RequestID: "a", Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "explain", InputTokens: 100, OutputTokens: 300, LatencyMs: 800, Success: true, RequestBody: "[user]\nITB 0.9", ResponseBody: "## Significado"},
		{RequestID: "b", Provider: "gemini", Model: "gemini-2.5-flash", Purpose: "scan", InputTokens: 900, OutputTokens: 20, LatencyMs: 1200, Success: true},
		{RequestID: "c", Provider: "openai", Model: "gpt-4o-mini", Purpose: "explain", LatencyMs: 400, Success: false, ErrorMessage: "rate limited"},
	}
	for i, e := range events {
		repo.now = fixedClock(base.Add(time.Duration(i) * time.Minute))
		require.NoError(t, repo.AppendLLMRequest(context.Background(), e))
	}
}

func TestAppendAndQueryLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	seedEvents(t, repo, base)
	ctx := context.Background()

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 3)

	// Newest first.
	assert.Equal(t, "c", events[0].RequestID)
	assert.Equal(t, int64(3), events[0].Sequence)
	assert.False(t, events[0].Success)
	assert.Equal(t, "rate limited", events[0].ErrorMessage)
	assert.True(t, base.Add(2*time.Minute).Equal(events[0].Timestamp))

	assert.Equal(t, "a", events[2].RequestID)
	assert.True(t, events[2].Success)
	assert.Equal(t, "## Significado", events[2].ResponseBody)
}

func TestQueryLLMEvents_Filters(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	seedEvents(t, repo, base)
	ctx := context.Background()

	tests := []struct {
		name string
		opts QueryOpts
		want []string
	}{
		{"limit", QueryOpts{Limit: 2}, []string{"c", "b"}},
		{"purpose", QueryOpts{Purpose: "explain"}, []string{"c", "a"}},
		{"after", QueryOpts{After: 1}, []string{"c", "b"}},
		{"before", QueryOpts{Before: 3}, []string{"b", "a"}},
		{"from", QueryOpts{From: base.Add(time.Minute)}, []string{"c", "b"}},
		{"to", QueryOpts{To: base}, []string{"a"}},
		{"request", QueryOpts{RequestID: "b"}, []string{"b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := repo.QueryLLMEvents(ctx, tt.opts)
			require.NoError(t, err)
			var ids []string
			for _, e := range events {
				ids = append(ids, e.RequestID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestGetLLMEvent(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	seedEvents(t, repo, time.Now().UTC())
	ctx := context.Background()

	e, err := repo.GetLLMEvent(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "a", e.RequestID)
	assert.Equal(t, "[user]\nITB 0.9", e.RequestBody)

	missing, err := repo.GetLLMEvent(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLLMUsageAggregates(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	seedEvents(t, repo, time.Now().UTC())
	ctx := context.Background()

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	assert.Equal(t, []PurposeUsage{
		{Purpose: "explain", Calls: 2, InputTokens: 100, OutputTokens: 300, AvgLatencyMs: 600},
		{Purpose: "scan", Calls: 1, InputTokens: 900, OutputTokens: 20, AvgLatencyMs: 1200},
	}, byPurpose)

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ModelUsage{
		{Model: "gemini-2.5-flash", Calls: 2, InputTokens: 1000, OutputTokens: 320},
		{Model: "gpt-4o-mini", Calls: 1},
	}, byModel)
}

func TestLLMUsage_Empty(t *testing.T) {
	s := openTestStore(t)
	stats, err := s.EventRepo().LLMUsageByPurpose(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stats)
}
