package executor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	"convoagent/jsonx"
	"convoagent/store"
	"convoagent/types"
)

const isoDate = "2006-01-02"

type createLead struct{ *Set }

func (e *createLead) Execute(ctx context.Context, userID string, p types.Payload) (string, error) {
	now := e.now()
	rec := store.LeadRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      p.String("lead_name"),
		Email:     p.String("lead_email"),
		Phone:     p.String("lead_phone"),
		Source:    p.String("lead_source"),
		Status:    p.String("lead_status"),
		Remarks:   p.String("remarks"),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if at, err := time.Parse(isoDate, p.String("follow_up")); err == nil {
		rec.FollowUpAt = &at
	}
	if err := e.store.InsertLead(ctx, rec); err != nil {
		return "", fmt.Errorf("insert lead: %w", err)
	}

	msg := fmt.Sprintf("Saved %s (%s) as a %s lead from %s.", rec.Name, rec.Email, rec.Status, rec.Source)
	if rec.FollowUpAt != nil {
		msg += fmt.Sprintf(" Follow-up on %s.", rec.FollowUpAt.Format(isoDate))
	}
	return msg, nil
}

type viewLeads struct{ *Set }

func (e *viewLeads) Execute(ctx context.Context, userID string, p types.Payload) (string, error) {
	f := store.LeadFilter{Limit: 20}
	if !p.Bool("show_all") {
		f.Status = p.String("lead_status")
		f.Query = p.String("query")
	}
	recs, err := e.store.ListLeads(ctx, userID, f)
	if err != nil {
		return "", fmt.Errorf("list leads: %w", err)
	}
	if len(recs) == 0 {
		return "No leads matched. Try \"show all leads\" to see everything.", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d lead(s):\n", len(recs))
	for _, rec := range recs {
		line := fmt.Sprintf("- %s <%s> [%s]", rec.Name, rec.Email, rec.Status)
		if rec.FollowUpAt != nil {
			line += " follow-up " + rec.FollowUpAt.Format(isoDate)
		}
		sb.WriteString(line + "\n")
	}
	return strings.TrimRight(sb.String(), "\n"), nil
}

func findLead(ctx context.Context, s *Set, userID, query string) (*store.LeadRecord, error) {
	recs, err := s.store.ListLeads(ctx, userID, store.LeadFilter{Query: query, Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("search leads: %w", err)
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return &recs[0], nil
}

type editLead struct{ *Set }

// editableLeadFields is the subset of lead columns an instruction may change.
var editableLeadFields = []string{"name", "email", "phone", "source", "status", "remarks"}

func (e *editLead) Execute(ctx context.Context, userID string, p types.Payload) (string, error) {
	rec, err := findLead(ctx, e.Set, userID, p.String("query"))
	if err != nil {
		return "", err
	}
	if rec == nil {
		return fmt.Sprintf("I couldn't find any lead matching %q.", p.String("query")), nil
	}

	changes, err := e.resolveChanges(ctx, rec, p.String("edit_instruction"))
	if err != nil {
		return "", fmt.Errorf("resolve lead edit: %w", err)
	}
	if len(changes) == 0 {
		return fmt.Sprintf("I couldn't tell what to change on %s. Try something like \"set status to Qualified\".", rec.Name), nil
	}

	var applied []string
	for field, value := range changes {
		switch field {
		case "name":
			rec.Name = value
		case "email":
			rec.Email = value
		case "phone":
			rec.Phone = value
		case "source":
			rec.Source = value
		case "status":
			rec.Status = value
		case "remarks":
			rec.Remarks = value
		default:
			continue
		}
		applied = append(applied, fmt.Sprintf("%s=%s", field, value))
	}
	rec.UpdatedAt = e.now()
	if err := e.store.UpdateLead(ctx, *rec); err != nil {
		return "", fmt.Errorf("update lead: %w", err)
	}
	return fmt.Sprintf("Updated %s: %s.", rec.Name, strings.Join(applied, ", ")), nil
}

// resolveChanges asks the model to translate a free-text instruction into a
// field/value object, then keeps only the editable string fields.
func (e *editLead) resolveChanges(ctx context.Context, rec *store.LeadRecord, instruction string) (map[string]string, error) {
	prompt := fmt.Sprintf(`A CRM lead currently looks like:
name: %s
email: %s
phone: %s
source: %s
status: %s
remarks: %s

Apply this instruction: %s

Output strict JSON with only the fields that change, chosen from: %s.`,
		rec.Name, rec.Email, rec.Phone, rec.Source, rec.Status, rec.Remarks,
		instruction, strings.Join(editableLeadFields, ", "))

	response, err := e.chat.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return nil, err
	}
	obj, err := jsonx.ExtractObject(response.Content)
	if err != nil {
		return nil, err
	}

	changes := make(map[string]string)
	for _, field := range editableLeadFields {
		if v, ok := obj[field].(string); ok && v != "" {
			changes[field] = v
		}
	}
	return changes, nil
}

type deleteLead struct{ *Set }

func (e *deleteLead) Execute(ctx context.Context, userID string, p types.Payload) (string, error) {
	rec, err := findLead(ctx, e.Set, userID, p.String("query"))
	if err != nil {
		return "", err
	}
	if rec == nil {
		return fmt.Sprintf("I couldn't find any lead matching %q.", p.String("query")), nil
	}
	if err := e.store.DeleteLead(ctx, userID, rec.ID); err != nil {
		return "", fmt.Errorf("delete lead: %w", err)
	}
	return fmt.Sprintf("Deleted lead %s <%s>.", rec.Name, rec.Email), nil
}

type followUpLead struct{ *Set }

func (e *followUpLead) Execute(ctx context.Context, userID string, p types.Payload) (string, error) {
	rec, err := findLead(ctx, e.Set, userID, p.String("query"))
	if err != nil {
		return "", err
	}
	if rec == nil {
		return fmt.Sprintf("I couldn't find any lead matching %q.", p.String("query")), nil
	}

	at, err := time.Parse(isoDate, p.String("follow_up_date"))
	if err != nil {
		return fmt.Sprintf("I couldn't read %q as a date. Please use YYYY-MM-DD.", p.String("follow_up_date")), nil
	}
	rec.FollowUpAt = &at
	if rec.Status == "New" {
		rec.Status = "Contacted"
	}
	rec.UpdatedAt = e.now()
	if err := e.store.UpdateLead(ctx, *rec); err != nil {
		return "", fmt.Errorf("update lead follow-up: %w", err)
	}
	return fmt.Sprintf("Follow-up with %s set for %s.", rec.Name, at.Format(isoDate)), nil
}
