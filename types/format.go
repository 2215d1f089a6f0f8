package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
)

// FormatFieldTable renders a schema as a markdown table for prompts.
func FormatFieldTable(fields []FieldSpec) string {
	if len(fields) == 0 {
		return ""
	}
	var buf strings.Builder
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Field", "Type", "Allowed values", "Description")
	for _, f := range fields {
		_ = table.Append(f.Name, string(f.Type), strings.Join(f.Values, ", "), f.Description)
	}
	_ = table.Render()
	return buf.String()
}

// FormatPayloadSection renders the payload collected so far as a fenced JSON
// block, the way the model sees it in every prompt.
func FormatPayloadSection(p Payload) string {
	if p == nil {
		p = Payload{}
	}
	data, err := sonic.Marshal(p)
	if err != nil {
		return "# Collected payload JSON:\n```json\n{}\n```"
	}
	return fmt.Sprintf("# Collected payload JSON:\n```json\n%s\n```", string(data))
}

// FormatDateSection gives the model a concrete "now" so relative phrases like
// "yesterday" can be normalized to literal calendar dates.
func FormatDateSection(now time.Time) string {
	return fmt.Sprintf("# Current date: %s (%s)", now.Format("2006-01-02"), now.Weekday())
}

// FormatTranscriptSection wraps the running transcript, optionally marking
// the latest message so change detection can weigh it separately.
func FormatTranscriptSection(transcript, latest string) string {
	sections := []string{fmt.Sprintf("# Conversation so far:\n%s", transcript)}
	if latest != "" {
		sections = append(sections, fmt.Sprintf("# Latest user message:\n%s", latest))
	}
	return strings.Join(sections, "\n\n")
}
