package executor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convoagent/llmtest"
	"convoagent/store"
	"convoagent/types"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestSet(t *testing.T, replies ...llmtest.Reply) (*Set, *store.Memory, *llmtest.ScriptedModel) {
	t.Helper()
	mem := store.NewMemory()
	chat := llmtest.NewScriptedModel(replies...)
	return NewSet(mem, chat, func() time.Time { return fixedNow }, nil), mem, chat
}

func TestExecuteRequiresUserID(t *testing.T) {
	s, _, _ := newTestSet(t)
	_, err := s.Execute(context.Background(), types.IntentViewContent, "", types.Payload{})
	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestForCoversEveryIntent(t *testing.T) {
	s, _, _ := newTestSet(t)
	for _, intent := range types.AllIntents {
		ex, err := s.For(intent)
		require.NoError(t, err, "intent %s", intent)
		assert.NotNil(t, ex)
	}
	_, err := s.For(types.Intent("made_up"))
	assert.Error(t, err)
}

func TestCreateContentDraftsAndStores(t *testing.T) {
	ctx := context.Background()
	s, mem, _ := newTestSet(t, llmtest.Text("Spring is here! New looks dropping this week."))

	out, err := s.Execute(ctx, types.IntentCreateContent, "u1", types.Payload{
		"channel": "Social Media", "platform": "Instagram", "content_type": "Image",
		"content_idea": "spring lookbook", "post_type": "Post", "media": "None",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Spring is here!")

	recs, err := mem.ListContent(ctx, "u1", store.ContentFilter{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, store.StatusGenerated, recs[0].Status)
	assert.Equal(t, "spring lookbook", recs[0].Idea)
	assert.NotEmpty(t, recs[0].ID)
}

func TestViewContentShowAllIgnoresFilters(t *testing.T) {
	ctx := context.Background()
	s, mem, _ := newTestSet(t)
	seedContent(t, mem)

	out, err := s.Execute(ctx, types.IntentViewContent, "u1", types.Payload{
		"show_all": true, "platform": "Instagram", "status": "published",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Found 2")

	out, err = s.Execute(ctx, types.IntentViewContent, "u1", types.Payload{
		"platform": "Instagram", "status": "published",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Found 1")
}

func TestEditContentRewritesBody(t *testing.T) {
	ctx := context.Background()
	s, mem, chat := newTestSet(t, llmtest.Text("Shorter copy."))
	seedContent(t, mem)

	out, err := s.Execute(ctx, types.IntentEditContent, "u1", types.Payload{
		"query": "fashion", "edit_instruction": "make it shorter",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Shorter copy.")

	calls := chat.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Messages[0].Content, "make it shorter")

	recs, err := mem.ListContent(ctx, "u1", store.ContentFilter{Query: "Shorter"})
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestPublishAndScheduleContent(t *testing.T) {
	ctx := context.Background()
	s, mem, _ := newTestSet(t)
	seedContent(t, mem)

	out, err := s.Execute(ctx, types.IntentPublishContent, "u1", types.Payload{"query": "fashion"})
	require.NoError(t, err)
	assert.Contains(t, out, "Published")

	out, err = s.Execute(ctx, types.IntentScheduleContent, "u1", types.Payload{
		"query": "sale", "schedule_date": "2025-03-15", "schedule_time": "09:30",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Scheduled")

	recs, err := mem.ListContent(ctx, "u1", store.ContentFilter{Status: store.StatusScheduled})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.NotNil(t, recs[0].ScheduledAt)
	assert.Equal(t, 9, recs[0].ScheduledAt.Hour())
}

func TestScheduleContentRejectsBadDate(t *testing.T) {
	ctx := context.Background()
	s, mem, _ := newTestSet(t)
	seedContent(t, mem)

	out, err := s.Execute(ctx, types.IntentScheduleContent, "u1", types.Payload{
		"query": "sale", "schedule_date": "next tuesday", "schedule_time": "morning",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "YYYY-MM-DD")
}

func TestDeleteContentMissingQuery(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestSet(t)

	out, err := s.Execute(ctx, types.IntentDeleteContent, "u1", types.Payload{"query": "nothing here"})
	require.NoError(t, err)
	assert.Contains(t, out, "couldn't find")
}

func TestCreateAndFollowUpLead(t *testing.T) {
	ctx := context.Background()
	s, mem, _ := newTestSet(t)

	out, err := s.Execute(ctx, types.IntentCreateLeads, "u1", types.Payload{
		"lead_name": "John Doe", "lead_email": "john@x.com", "lead_source": "Referral",
		"lead_status": "New", "follow_up": "2025-03-20", "remarks": "met at expo",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "John Doe")
	assert.Contains(t, out, "2025-03-20")

	out, err = s.Execute(ctx, types.IntentFollowUpLeads, "u1", types.Payload{
		"query": "john", "follow_up_date": "2025-04-01",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "2025-04-01")

	recs, err := mem.ListLeads(ctx, "u1", store.LeadFilter{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	// Following up a fresh lead moves it out of New.
	assert.Equal(t, "Contacted", recs[0].Status)
	require.NotNil(t, recs[0].FollowUpAt)
}

func TestEditLeadAppliesModelChanges(t *testing.T) {
	ctx := context.Background()
	s, mem, _ := newTestSet(t, llmtest.Text(`{"status": "Qualified", "remarks": "budget confirmed"}`))
	seedLead(t, mem)

	out, err := s.Execute(ctx, types.IntentEditLeads, "u1", types.Payload{
		"query": "jane", "edit_instruction": "mark qualified, note budget confirmed",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "status=Qualified")

	recs, err := mem.ListLeads(ctx, "u1", store.LeadFilter{Status: "Qualified"})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "budget confirmed", recs[0].Remarks)
}

func TestEditLeadIgnoresUnknownFields(t *testing.T) {
	ctx := context.Background()
	s, mem, _ := newTestSet(t, llmtest.Text(`{"id": "hacked", "status": "Lost"}`))
	seedLead(t, mem)

	_, err := s.Execute(ctx, types.IntentEditLeads, "u1", types.Payload{
		"query": "jane", "edit_instruction": "mark lost",
	})
	require.NoError(t, err)

	recs, err := mem.ListLeads(ctx, "u1", store.LeadFilter{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.NotEqual(t, "hacked", recs[0].ID)
	assert.Equal(t, "Lost", recs[0].Status)
}

func TestViewLeadsBypassFilters(t *testing.T) {
	ctx := context.Background()
	s, mem, _ := newTestSet(t)
	seedLead(t, mem)

	out, err := s.Execute(ctx, types.IntentViewLeads, "u1", types.Payload{"show_all": true})
	require.NoError(t, err)
	assert.Contains(t, out, "jane@y.com")

	out, err = s.Execute(ctx, types.IntentViewLeads, "u1", types.Payload{"lead_status": "Converted"})
	require.NoError(t, err)
	assert.Contains(t, out, "No leads matched")
}

func TestViewAnalyticsLeadReport(t *testing.T) {
	ctx := context.Background()
	s, mem, _ := newTestSet(t)

	for _, rec := range []store.LeadRecord{
		{ID: "l1", Name: "A", Status: "New", CreatedAt: fixedNow.AddDate(0, 0, -2)},
		{ID: "l2", Name: "B", Status: "Qualified", CreatedAt: fixedNow.AddDate(0, 0, -1)},
		{ID: "l3", Name: "C", Status: "New", CreatedAt: fixedNow.AddDate(0, 0, -30)},
	} {
		rec.UserID = "u1"
		rec.UpdatedAt = rec.CreatedAt
		require.NoError(t, mem.InsertLead(ctx, rec))
	}

	out, err := s.Execute(ctx, types.IntentViewAnalytics, "u1", types.Payload{
		"metric": "leads", "start_date": "2025-03-03", "end_date": "2025-03-10",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "2 total")
	assert.Contains(t, out, "New: 1")
	assert.Contains(t, out, "Qualified: 1")
}

func TestViewAnalyticsContentReport(t *testing.T) {
	ctx := context.Background()
	s, mem, _ := newTestSet(t)
	seedContent(t, mem)

	out, err := s.Execute(ctx, types.IntentViewAnalytics, "u1", types.Payload{
		"metric": "engagement", "start_date": "2025-03-01", "end_date": "2025-03-31",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "2 piece(s)")
	assert.Contains(t, out, "1 published")
}

func TestGreetingFallsBackOnModelError(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newTestSet(t, llmtest.Failf("model down"))

	out, err := s.Execute(ctx, types.IntentGreeting, "u1", types.Payload{"user_message": "hey"})
	require.NoError(t, err)
	assert.Contains(t, out, "What would you like to do?")
}

func TestGeneralTalkUsesModel(t *testing.T) {
	ctx := context.Background()
	s, _, chat := newTestSet(t, llmtest.Text("Happy to help!"))

	out, err := s.Execute(ctx, types.IntentGeneralTalks, "u1", types.Payload{"user_message": "what can you do?"})
	require.NoError(t, err)
	assert.Equal(t, "Happy to help!", out)

	calls := chat.Calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Messages[1].Content, "what can you do?")
}

func seedContent(t *testing.T, mem *store.Memory) {
	t.Helper()
	ctx := context.Background()
	for i, rec := range []store.ContentRecord{
		{ID: "c1", Platform: "Instagram", Idea: "sustainable fashion", Body: "Old copy.", Status: store.StatusPublished},
		{ID: "c2", Platform: "Facebook", Idea: "winter sale", Body: "Sale copy.", Status: store.StatusGenerated},
	} {
		rec.UserID = "u1"
		rec.CreatedAt = fixedNow.AddDate(0, 0, -i)
		rec.UpdatedAt = rec.CreatedAt
		require.NoError(t, mem.InsertContent(ctx, rec))
	}
}

func seedLead(t *testing.T, mem *store.Memory) {
	t.Helper()
	require.NoError(t, mem.InsertLead(context.Background(), store.LeadRecord{
		ID: "l1", UserID: "u1", Name: "Jane Roe", Email: "jane@y.com",
		Status: "New", CreatedAt: fixedNow, UpdatedAt: fixedNow,
	}))
}
