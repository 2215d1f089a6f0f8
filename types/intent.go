package types

import "strings"

// Intent is one of the closed set of user goals the assistant understands.
type Intent string

const (
	IntentCreateContent   Intent = "create_content"
	IntentEditContent     Intent = "edit_content"
	IntentDeleteContent   Intent = "delete_content"
	IntentPublishContent  Intent = "publish_content"
	IntentScheduleContent Intent = "schedule_content"
	IntentViewContent     Intent = "view_content"
	IntentGenerateIdeas   Intent = "generate_ideas"
	IntentCreateLeads     Intent = "create_leads"
	IntentViewLeads       Intent = "view_leads"
	IntentEditLeads       Intent = "edit_leads"
	IntentDeleteLeads     Intent = "delete_leads"
	IntentFollowUpLeads   Intent = "follow_up_leads"
	IntentViewAnalytics   Intent = "view_analytics"
	IntentGreeting        Intent = "greeting"
	IntentGeneralTalks    Intent = "general_talks"
)

// Category is the coarse task grouping used to tell a refinement from a
// complete shift.
type Category string

const (
	CategoryContent      Category = "content"
	CategoryLeads        Category = "leads"
	CategoryAnalytics    Category = "analytics"
	CategoryConversation Category = "conversation"
)

// AllIntents lists every valid intent, in a stable order for prompts.
var AllIntents = []Intent{
	IntentCreateContent,
	IntentEditContent,
	IntentDeleteContent,
	IntentPublishContent,
	IntentScheduleContent,
	IntentViewContent,
	IntentGenerateIdeas,
	IntentCreateLeads,
	IntentViewLeads,
	IntentEditLeads,
	IntentDeleteLeads,
	IntentFollowUpLeads,
	IntentViewAnalytics,
	IntentGreeting,
	IntentGeneralTalks,
}

var intentCategories = map[Intent]Category{
	IntentCreateContent:   CategoryContent,
	IntentEditContent:     CategoryContent,
	IntentDeleteContent:   CategoryContent,
	IntentPublishContent:  CategoryContent,
	IntentScheduleContent: CategoryContent,
	IntentViewContent:     CategoryContent,
	IntentGenerateIdeas:   CategoryContent,
	IntentCreateLeads:     CategoryLeads,
	IntentViewLeads:       CategoryLeads,
	IntentEditLeads:       CategoryLeads,
	IntentDeleteLeads:     CategoryLeads,
	IntentFollowUpLeads:   CategoryLeads,
	IntentViewAnalytics:   CategoryAnalytics,
	IntentGreeting:        CategoryConversation,
	IntentGeneralTalks:    CategoryConversation,
}

// Valid reports whether the intent is a member of the closed set.
func (i Intent) Valid() bool {
	_, ok := intentCategories[i]
	return ok
}

// Category returns the coarse grouping for the intent. Unknown intents map to
// the conversation category, the safest bucket.
func (i Intent) Category() Category {
	if c, ok := intentCategories[i]; ok {
		return c
	}
	return CategoryConversation
}

// Conversational reports whether the intent has no payload schema and skips
// construction entirely.
func (i Intent) Conversational() bool {
	return i == IntentGreeting || i == IntentGeneralTalks
}

// ParseIntent normalizes raw model output into an intent. Exact match is
// tried first, then a substring scan over the known labels. The boolean is
// false when nothing matched.
func ParseIntent(raw string) (Intent, bool) {
	label := strings.ToLower(strings.TrimSpace(raw))
	label = strings.Trim(label, "\"'`.")
	if i := Intent(label); i.Valid() {
		return i, true
	}
	for _, i := range AllIntents {
		if strings.Contains(label, string(i)) {
			return i, true
		}
	}
	return "", false
}
