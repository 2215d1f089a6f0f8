package complete

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convoagent/types"
)

func fixedNow() time.Time {
	// A Monday.
	return time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
}

func newCompleter() *Completer {
	return NewCompleter(nil, fixedNow, nil)
}

func TestIdempotentCompletion(t *testing.T) {
	c := newCompleter()
	ctx := context.Background()

	first, err := c.Complete(ctx, types.IntentCreateContent, types.Payload{}, "", true)
	require.NoError(t, err)
	second, err := c.Complete(ctx, types.IntentCreateContent, types.Payload{}, "", true)
	require.NoError(t, err)

	assert.True(t, first.Complete)
	assert.Equal(t, first, second)
	assert.Nil(t, second.Clarification)
}

func TestOrderedClarification(t *testing.T) {
	c := newCompleter()

	// Only the middle field is filled; the first missing one must be asked.
	res, err := c.Complete(context.Background(), types.IntentScheduleContent,
		types.Payload{"schedule_date": "2025-03-12"}, "", false)
	require.NoError(t, err)
	require.NotNil(t, res.Clarification)
	assert.Equal(t, "query", res.Clarification.Field)
}

func TestBypassPrecedence(t *testing.T) {
	c := newCompleter()
	for _, intent := range []types.Intent{
		types.IntentViewContent, types.IntentEditContent,
		types.IntentDeleteContent, types.IntentPublishContent,
	} {
		res, err := c.Complete(context.Background(), intent,
			types.Payload{"query": "the fashion post"}, "", false)
		require.NoError(t, err, "intent %s", intent)
		assert.True(t, res.Complete, "intent %s must bypass on query", intent)
	}
}

func TestShowAllBypass(t *testing.T) {
	c := newCompleter()
	res, err := c.Complete(context.Background(), types.IntentViewContent,
		types.Payload{"show_all": true}, "", false)
	require.NoError(t, err)
	assert.True(t, res.Complete)
}

func TestConditionalImageType(t *testing.T) {
	c := newCompleter()
	base := types.Payload{
		"channel": "Social Media", "platform": "Instagram",
		"content_type": "Image", "content_idea": "spring lookbook",
		"post_type": "Post",
	}

	withoutGenerate := base.Clone()
	withoutGenerate["media"] = "None"
	res, err := c.Complete(context.Background(), types.IntentCreateContent, withoutGenerate, "", false)
	require.NoError(t, err)
	assert.True(t, res.Complete, "image_type must not be required when media != Generate")

	withGenerate := base.Clone()
	withGenerate["media"] = "Generate"
	res, err = c.Complete(context.Background(), types.IntentCreateContent, withGenerate, "", false)
	require.NoError(t, err)
	require.NotNil(t, res.Clarification)
	assert.Equal(t, "image_type", res.Clarification.Field)
	assert.NotEmpty(t, res.Clarification.Options)
}

func TestMediaAskedAfterPrecedingFields(t *testing.T) {
	c := newCompleter()

	res, err := c.Complete(context.Background(), types.IntentCreateContent, types.Payload{
		"channel": "Social Media", "platform": "Instagram", "media": "Generate",
	}, "", false)
	require.NoError(t, err)
	require.NotNil(t, res.Clarification)
	assert.Equal(t, "content_type", res.Clarification.Field,
		"earlier flow fields are asked before anything media-dependent")
}

func TestSynonymNormalization(t *testing.T) {
	c := newCompleter()
	p := types.Payload{"platform": "ig", "status": "draft"}

	res, err := c.Complete(context.Background(), types.IntentViewContent, p, "", false)
	require.NoError(t, err)
	assert.True(t, res.Complete)
	assert.Equal(t, "Instagram", p.String("platform"))
	assert.Equal(t, "generated", p.String("status"))
}

func TestRelativeDateResolutionCached(t *testing.T) {
	c := newCompleter()
	p := types.Payload{"metric": "views", "start_date": "last week"}

	res, err := c.Complete(context.Background(), types.IntentViewAnalytics, p, "", false)
	require.NoError(t, err)
	assert.True(t, res.Complete)
	assert.Equal(t, "2025-03-03", p.String("start_date"))
	assert.Equal(t, "2025-03-09", p.String("end_date"))
}

func TestBothDatesPhrasedResolveIndependently(t *testing.T) {
	c := newCompleter()
	p := types.Payload{"metric": "views", "start_date": "this month", "end_date": "yesterday"}

	res, err := c.Complete(context.Background(), types.IntentViewAnalytics, p, "", false)
	require.NoError(t, err)
	assert.True(t, res.Complete)
	assert.Equal(t, "2025-03-01", p.String("start_date"))
	// The user's own end phrase wins over the end of the start range.
	assert.Equal(t, "2025-03-09", p.String("end_date"))
}

func TestUploadSuspension(t *testing.T) {
	c := newCompleter()
	p := types.Payload{
		"channel": "Social Media", "platform": "Instagram",
		"content_type": "Video", "content_idea": "behind the scenes",
		"post_type": "Reel", "media": "Upload",
	}

	res, err := c.Complete(context.Background(), types.IntentCreateContent, p, "", false)
	require.NoError(t, err)
	assert.False(t, res.Complete)
	require.NotNil(t, res.Upload)
	assert.Equal(t, types.UploadVideo, res.Upload.Kind)

	p["media_file"] = "https://cdn.example/bts.mp4"
	res, err = c.Complete(context.Background(), types.IntentCreateContent, p, "", false)
	require.NoError(t, err)
	assert.True(t, res.Complete)
}

func TestLeadFlowPriorityOrder(t *testing.T) {
	c := newCompleter()

	res, err := c.Complete(context.Background(), types.IntentCreateLeads, types.Payload{
		"lead_name": "John Doe", "lead_email": "john@x.com",
	}, "", false)
	require.NoError(t, err)
	require.NotNil(t, res.Clarification)
	assert.Equal(t, "lead_source", res.Clarification.Field)
}

type failingTone struct{}

func (failingTone) Rewrite(ctx context.Context, question, transcript string) (string, error) {
	return "", errors.New("model down")
}

type echoTone struct{}

func (echoTone) Rewrite(ctx context.Context, question, transcript string) (string, error) {
	return "yo - " + question, nil
}

func TestToneRewriteFallsBackToTemplate(t *testing.T) {
	c := NewCompleter(failingTone{}, fixedNow, nil)

	res, err := c.Complete(context.Background(), types.IntentCreateLeads, types.Payload{}, "sup", false)
	require.NoError(t, err)
	require.NotNil(t, res.Clarification)
	assert.Equal(t, "What's the lead's name?", res.Clarification.Question)
}

func TestToneRewriteApplied(t *testing.T) {
	c := NewCompleter(echoTone{}, fixedNow, nil)

	res, err := c.Complete(context.Background(), types.IntentCreateLeads, types.Payload{}, "sup", false)
	require.NoError(t, err)
	require.NotNil(t, res.Clarification)
	assert.Equal(t, "yo - What's the lead's name?", res.Clarification.Question)
}
