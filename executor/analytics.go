package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"convoagent/store"
	"convoagent/types"
)

type viewAnalytics struct{ *Set }

func (e *viewAnalytics) Execute(ctx context.Context, userID string, p types.Payload) (string, error) {
	since, err := time.Parse(isoDate, p.String("start_date"))
	if err != nil {
		return fmt.Sprintf("I couldn't read %q as a start date. Please use YYYY-MM-DD.", p.String("start_date")), nil
	}
	until, err := time.Parse(isoDate, p.String("end_date"))
	if err != nil {
		return fmt.Sprintf("I couldn't read %q as an end date. Please use YYYY-MM-DD.", p.String("end_date")), nil
	}
	// The end date is inclusive: extend it to the end of that day.
	until = until.Add(24*time.Hour - time.Nanosecond)

	metric := strings.ToLower(p.String("metric"))
	rangeLabel := fmt.Sprintf("%s to %s", since.Format(isoDate), p.String("end_date"))

	if metric == "leads" {
		return e.leadReport(ctx, userID, since, until, rangeLabel)
	}
	return e.contentReport(ctx, userID, metric, since, until, rangeLabel)
}

func (e *viewAnalytics) leadReport(ctx context.Context, userID string, since, until time.Time, rangeLabel string) (string, error) {
	recs, err := e.store.ListLeads(ctx, userID, store.LeadFilter{})
	if err != nil {
		return "", fmt.Errorf("list leads for report: %w", err)
	}

	byStatus := make(map[string]int)
	total := 0
	for _, rec := range recs {
		if rec.CreatedAt.Before(since) || rec.CreatedAt.After(until) {
			continue
		}
		byStatus[rec.Status]++
		total++
	}
	if total == 0 {
		return fmt.Sprintf("No leads were created between %s.", rangeLabel), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Leads from %s: %d total.\n", rangeLabel, total)
	for _, status := range []string{"New", "Contacted", "Qualified", "Converted", "Lost"} {
		if n := byStatus[status]; n > 0 {
			fmt.Fprintf(&sb, "- %s: %d\n", status, n)
		}
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

func (e *viewAnalytics) contentReport(ctx context.Context, userID, metric string, since, until time.Time, rangeLabel string) (string, error) {
	recs, err := e.store.ListContent(ctx, userID, store.ContentFilter{Since: &since, Until: &until})
	if err != nil {
		return "", fmt.Errorf("list content for report: %w", err)
	}
	if len(recs) == 0 {
		return fmt.Sprintf("No content activity between %s.", rangeLabel), nil
	}

	byPlatform := make(map[string]int)
	published := 0
	for _, rec := range recs {
		byPlatform[rec.Platform]++
		if rec.Status == store.StatusPublished {
			published++
		}
	}

	label := metric
	if label != "" {
		label = strings.ToUpper(label[:1]) + label[1:]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s from %s: %d piece(s) of content, %d published.\n",
		label, rangeLabel, len(recs), published)
	for platform, n := range byPlatform {
		if platform == "" {
			platform = "(unset)"
		}
		fmt.Fprintf(&sb, "- %s: %d\n", platform, n)
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}
