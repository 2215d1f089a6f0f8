// Package clarify is the catalog of clarification questions, keyed by
// (intent, field). It is a pure lookup: when no entry exists a generic
// templated question is returned, so the completer can always produce a
// prompt.
package clarify

import (
	"fmt"

	"convoagent/types"
)

// Prompt is a question template plus its fixed choices. Empty Options means
// the question is open ended.
type Prompt struct {
	Question string
	Options  []types.Option
}

func opts(values ...string) []types.Option {
	out := make([]types.Option, 0, len(values))
	for _, v := range values {
		out = append(out, types.Option{Label: v, Value: v})
	}
	return out
}

type key struct {
	intent types.Intent
	field  string
}

var catalog = map[key]Prompt{
	{types.IntentCreateContent, "channel"}: {
		Question: "Where should this content go?",
		Options:  opts("Social Media", "Blog", "Email"),
	},
	{types.IntentCreateContent, "platform"}: {
		Question: "Which platform is this for?",
		Options:  opts("Instagram", "Facebook", "LinkedIn", "Twitter"),
	},
	{types.IntentCreateContent, "content_type"}: {
		Question: "What kind of content would you like?",
		Options:  opts("Image", "Video", "Text", "Carousel"),
	},
	{types.IntentCreateContent, "content_idea"}: {
		Question: "What should the content be about?",
	},
	{types.IntentCreateContent, "post_type"}: {
		Question: "Should this be a post, a reel, or a story?",
		Options:  opts("Post", "Reel", "Story"),
	},
	{types.IntentCreateContent, "media"}: {
		Question: "Do you want me to generate an image, or will you upload your own media?",
		Options:  opts("Generate", "Upload", "None"),
	},
	{types.IntentCreateContent, "image_type"}: {
		Question: "What style should the generated image have?",
		Options:  opts("Realistic", "Illustration", "3D", "Minimalist"),
	},
	{types.IntentEditContent, "query"}: {
		Question: "Which content would you like to edit? Describe it in a few words.",
	},
	{types.IntentEditContent, "edit_instruction"}: {
		Question: "What should I change about it?",
	},
	{types.IntentDeleteContent, "query"}: {
		Question: "Which content should I delete? Describe it in a few words.",
	},
	{types.IntentPublishContent, "query"}: {
		Question: "Which content should I publish?",
	},
	{types.IntentScheduleContent, "query"}: {
		Question: "Which content should I schedule?",
	},
	{types.IntentScheduleContent, "schedule_date"}: {
		Question: "What date should it go out?",
	},
	{types.IntentScheduleContent, "schedule_time"}: {
		Question: "What time should it go out?",
	},
	{types.IntentViewContent, "platform"}: {
		Question: "Which platform's content do you want to see?",
		Options:  opts("Instagram", "Facebook", "LinkedIn", "Twitter"),
	},
	{types.IntentViewContent, "status"}: {
		Question: "Which status are you interested in?",
		Options:  opts("generated", "scheduled", "published"),
	},
	{types.IntentGenerateIdeas, "platform"}: {
		Question: "Which platform should the ideas be for?",
		Options:  opts("Instagram", "Facebook", "LinkedIn", "Twitter"),
	},
	{types.IntentGenerateIdeas, "topic"}: {
		Question: "What topic should I brainstorm around?",
	},
	{types.IntentCreateLeads, "lead_name"}: {
		Question: "What's the lead's name?",
	},
	{types.IntentCreateLeads, "lead_email"}: {
		Question: "What's their email address?",
	},
	{types.IntentCreateLeads, "lead_source"}: {
		Question: "Where did this lead come from?",
		Options:  opts("Website", "Referral", "Social Media", "Event", "Other"),
	},
	{types.IntentCreateLeads, "lead_status"}: {
		Question: "What status should the lead start with?",
		Options:  opts("New", "Contacted", "Qualified", "Converted", "Lost"),
	},
	{types.IntentCreateLeads, "follow_up"}: {
		Question: "When should we follow up with them?",
	},
	{types.IntentCreateLeads, "remarks"}: {
		Question: "Any notes to keep with this lead?",
	},
	{types.IntentViewLeads, "lead_status"}: {
		Question: "Which leads do you want to see?",
		Options:  opts("New", "Contacted", "Qualified", "Converted", "Lost"),
	},
	{types.IntentEditLeads, "query"}: {
		Question: "Which lead would you like to edit?",
	},
	{types.IntentEditLeads, "edit_instruction"}: {
		Question: "What should I change about this lead?",
	},
	{types.IntentDeleteLeads, "query"}: {
		Question: "Which lead should I delete?",
	},
	{types.IntentFollowUpLeads, "query"}: {
		Question: "Which lead is this follow-up for?",
	},
	{types.IntentFollowUpLeads, "follow_up_date"}: {
		Question: "When should the follow-up happen?",
	},
	{types.IntentViewAnalytics, "metric"}: {
		Question: "Which metric do you want to look at?",
		Options:  opts("views", "engagement", "leads"),
	},
	{types.IntentViewAnalytics, "start_date"}: {
		Question: "From which date?",
	},
	{types.IntentViewAnalytics, "end_date"}: {
		Question: "Until which date?",
	},
}

// For returns the clarification prompt for (intent, field), falling back to
// a generic question when no entry exists.
func For(intent types.Intent, field string) Prompt {
	if p, ok := catalog[key{intent, field}]; ok {
		return p
	}
	return Prompt{Question: fmt.Sprintf("Please provide: %s", field)}
}
