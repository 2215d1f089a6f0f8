package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"convoagent/store"
	"convoagent/types"
)

type createContent struct{ *Set }

func (e *createContent) Execute(ctx context.Context, userID string, p types.Payload) (string, error) {
	body, err := e.draftBody(ctx, p)
	if err != nil {
		return "", fmt.Errorf("draft content body: %w", err)
	}

	now := e.now()
	rec := store.ContentRecord{
		ID:          uuid.NewString(),
		UserID:      userID,
		Channel:     p.String("channel"),
		Platform:    p.String("platform"),
		ContentType: p.String("content_type"),
		PostType:    p.String("post_type"),
		Idea:        p.String("content_idea"),
		Body:        body,
		MediaURL:    p.String("media_file"),
		Status:      store.StatusGenerated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.store.InsertContent(ctx, rec); err != nil {
		return "", fmt.Errorf("insert content: %w", err)
	}

	summary := fmt.Sprintf("Done! I drafted a %s %s for %s about %q. It's saved as a draft; say \"publish it\" when you're ready.",
		strings.ToLower(rec.ContentType), strings.ToLower(firstNonEmpty(rec.PostType, "piece")), rec.Platform, rec.Idea)
	return summary + "\n\n" + body, nil
}

func (e *createContent) draftBody(ctx context.Context, p types.Payload) (string, error) {
	prompt := fmt.Sprintf(`Write the copy for a %s %s on %s about: %s. Match the platform's usual length and style. Reply with the copy only.`,
		p.String("content_type"), p.String("post_type"), p.String("platform"), p.String("content_idea"))
	response, err := e.chat.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(response.Content), nil
}

type viewContent struct{ *Set }

func (e *viewContent) Execute(ctx context.Context, userID string, p types.Payload) (string, error) {
	f := store.ContentFilter{Limit: 20}
	if !p.Bool("show_all") {
		f.Status = p.String("status")
		f.Platform = p.String("platform")
		f.Query = p.String("query")
	}
	recs, err := e.store.ListContent(ctx, userID, f)
	if err != nil {
		return "", fmt.Errorf("list content: %w", err)
	}
	if len(recs) == 0 {
		return "No content matched. Try \"show all content\" to see everything.", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d item(s):\n", len(recs))
	for _, rec := range recs {
		fmt.Fprintf(&sb, "- [%s] %s on %s: %s\n", rec.Status, rec.ContentType, rec.Platform, rec.Idea)
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

// findContent resolves a free-text query to exactly one record, preferring
// the newest match.
func findContent(ctx context.Context, s *Set, userID, query string) (*store.ContentRecord, error) {
	recs, err := s.store.ListContent(ctx, userID, store.ContentFilter{Query: query, Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("search content: %w", err)
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return &recs[0], nil
}

type editContent struct{ *Set }

func (e *editContent) Execute(ctx context.Context, userID string, p types.Payload) (string, error) {
	rec, err := findContent(ctx, e.Set, userID, p.String("query"))
	if err != nil {
		return "", err
	}
	if rec == nil {
		return fmt.Sprintf("I couldn't find any content matching %q.", p.String("query")), nil
	}

	instruction := p.String("edit_instruction")
	prompt := fmt.Sprintf("Rewrite this %s copy applying the instruction.\n\n# Copy:\n%s\n\n# Instruction:\n%s\n\nReply with the rewritten copy only.",
		rec.Platform, rec.Body, instruction)
	response, err := e.chat.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", fmt.Errorf("apply edit: %w", err)
	}

	rec.Body = strings.TrimSpace(response.Content)
	rec.UpdatedAt = e.now()
	if err := e.store.UpdateContent(ctx, *rec); err != nil {
		return "", fmt.Errorf("update content: %w", err)
	}
	return fmt.Sprintf("Updated %q.\n\n%s", rec.Idea, rec.Body), nil
}

type deleteContent struct{ *Set }

func (e *deleteContent) Execute(ctx context.Context, userID string, p types.Payload) (string, error) {
	rec, err := findContent(ctx, e.Set, userID, p.String("query"))
	if err != nil {
		return "", err
	}
	if rec == nil {
		return fmt.Sprintf("I couldn't find any content matching %q.", p.String("query")), nil
	}
	if err := e.store.DeleteContent(ctx, userID, rec.ID); err != nil {
		return "", fmt.Errorf("delete content: %w", err)
	}
	return fmt.Sprintf("Deleted %q (%s, %s).", rec.Idea, rec.ContentType, rec.Platform), nil
}

type publishContent struct{ *Set }

func (e *publishContent) Execute(ctx context.Context, userID string, p types.Payload) (string, error) {
	rec, err := findContent(ctx, e.Set, userID, p.String("query"))
	if err != nil {
		return "", err
	}
	if rec == nil {
		return fmt.Sprintf("I couldn't find any content matching %q.", p.String("query")), nil
	}
	rec.Status = store.StatusPublished
	rec.ScheduledAt = nil
	rec.UpdatedAt = e.now()
	if err := e.store.UpdateContent(ctx, *rec); err != nil {
		return "", fmt.Errorf("publish content: %w", err)
	}
	return fmt.Sprintf("Published %q to %s.", rec.Idea, rec.Platform), nil
}

type scheduleContent struct{ *Set }

func (e *scheduleContent) Execute(ctx context.Context, userID string, p types.Payload) (string, error) {
	rec, err := findContent(ctx, e.Set, userID, p.String("query"))
	if err != nil {
		return "", err
	}
	if rec == nil {
		return fmt.Sprintf("I couldn't find any content matching %q.", p.String("query")), nil
	}

	at, err := time.Parse("2006-01-02 15:04", p.String("schedule_date")+" "+p.String("schedule_time"))
	if err != nil {
		return fmt.Sprintf("I couldn't read %q %q as a date and time. Please use YYYY-MM-DD and HH:MM.",
			p.String("schedule_date"), p.String("schedule_time")), nil
	}

	rec.Status = store.StatusScheduled
	rec.ScheduledAt = &at
	rec.UpdatedAt = e.now()
	if err := e.store.UpdateContent(ctx, *rec); err != nil {
		return "", fmt.Errorf("schedule content: %w", err)
	}
	return fmt.Sprintf("Scheduled %q for %s.", rec.Idea, at.Format("Mon, 02 Jan 2006 15:04")), nil
}

type generateIdeas struct{ *Set }

func (e *generateIdeas) Execute(ctx context.Context, userID string, p types.Payload) (string, error) {
	prompt := fmt.Sprintf("Suggest five %s content ideas about %s. One line each, no preamble.",
		p.String("platform"), p.String("topic"))
	response, err := e.chat.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", fmt.Errorf("generate ideas: %w", err)
	}
	return strings.TrimSpace(response.Content), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
