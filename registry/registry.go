// Package registry maps each intent to the ordered field schema its payload
// must eventually satisfy. Field order is deliberate: it encodes the sequence
// clarification questions are asked in.
package registry

import (
	"fmt"

	"convoagent/types"
)

// ErrUnknownIntent signals a schema lookup for an intent outside the closed
// set, or for a conversational intent that has no schema.
type ErrUnknownIntent struct {
	Intent types.Intent
}

func (e *ErrUnknownIntent) Error() string {
	return fmt.Sprintf("registry: no schema for intent %q", e.Intent)
}

// MediaGenerate is the media choice that makes image_type required.
const MediaGenerate = "Generate"

// MediaUpload is the media choice that suspends the turn for a binary file.
const MediaUpload = "Upload"

func mediaIsGenerate(p types.Payload) bool {
	return p.String("media") == MediaGenerate
}

func channelIsSocial(p types.Payload) bool {
	return p.String("channel") == "Social Media"
}

var schemas = map[types.Intent][]types.FieldSpec{
	types.IntentCreateContent: {
		{Name: "channel", Type: types.FieldEnum, Required: true,
			Values:      []string{"Social Media", "Blog", "Email"},
			Description: "Where the content will be distributed"},
		{Name: "platform", Type: types.FieldEnum, Required: true,
			Values:      []string{"Instagram", "Facebook", "LinkedIn", "Twitter"},
			Description: "Target platform"},
		{Name: "content_type", Type: types.FieldEnum, Required: true,
			Values:      []string{"Image", "Video", "Text", "Carousel"},
			Description: "Kind of content to create"},
		{Name: "content_idea", Type: types.FieldString, Required: true,
			Description: "Topic or idea the content should cover"},
		{Name: "post_type", Type: types.FieldEnum, Required: true, When: channelIsSocial,
			Values:      []string{"Post", "Reel", "Story"},
			Description: "Social post format; only asked for social media"},
		// media is deliberately last before its dependent field: it is only
		// asked once everything above is filled.
		{Name: "media", Type: types.FieldEnum, Required: true,
			Values:      []string{"Generate", "Upload", "None"},
			Description: "Whether to generate media, upload a file, or go without"},
		{Name: "image_type", Type: types.FieldEnum, Required: true, When: mediaIsGenerate,
			Values:      []string{"Realistic", "Illustration", "3D", "Minimalist"},
			Description: "Visual style for generated media; only when media is Generate"},
	},
	types.IntentEditContent: {
		{Name: "query", Type: types.FieldString, Required: true,
			Description: "Free-text search identifying the content to edit"},
		{Name: "edit_instruction", Type: types.FieldString, Required: true,
			Description: "What should change"},
	},
	types.IntentDeleteContent: {
		{Name: "query", Type: types.FieldString, Required: true,
			Description: "Free-text search identifying the content to delete"},
	},
	types.IntentPublishContent: {
		{Name: "query", Type: types.FieldString, Required: true,
			Description: "Free-text search identifying the content to publish"},
	},
	types.IntentScheduleContent: {
		{Name: "query", Type: types.FieldString, Required: true,
			Description: "Free-text search identifying the content to schedule"},
		{Name: "schedule_date", Type: types.FieldString, Required: true,
			Description: "Publication date, ISO format YYYY-MM-DD"},
		{Name: "schedule_time", Type: types.FieldString, Required: true,
			Description: "Publication time, 24h HH:MM"},
	},
	types.IntentViewContent: {
		{Name: "platform", Type: types.FieldEnum, Required: true,
			Values:      []string{"Instagram", "Facebook", "LinkedIn", "Twitter"},
			Description: "Platform to filter by"},
		{Name: "status", Type: types.FieldEnum, Required: true,
			Values:      []string{"generated", "scheduled", "published"},
			Description: "Content status to filter by"},
		{Name: "query", Type: types.FieldString, Required: false,
			Description: "Free-text search; supersedes the structured filters"},
		{Name: "show_all", Type: types.FieldBool, Required: false,
			Description: "True when the user wants everything, unfiltered"},
	},
	types.IntentGenerateIdeas: {
		{Name: "platform", Type: types.FieldEnum, Required: true,
			Values:      []string{"Instagram", "Facebook", "LinkedIn", "Twitter"},
			Description: "Platform the ideas should suit"},
		{Name: "topic", Type: types.FieldString, Required: true,
			Description: "Theme to brainstorm around"},
	},
	types.IntentCreateLeads: {
		{Name: "lead_name", Type: types.FieldString, Required: true,
			Description: "Full name of the lead"},
		{Name: "lead_email", Type: types.FieldString, Required: true,
			Description: "Email address"},
		{Name: "lead_phone", Type: types.FieldString, Required: false,
			Description: "Phone number, optional"},
		{Name: "lead_source", Type: types.FieldEnum, Required: true,
			Values:      []string{"Website", "Referral", "Social Media", "Event", "Other"},
			Description: "Where the lead came from"},
		{Name: "lead_status", Type: types.FieldEnum, Required: true,
			Values:      []string{"New", "Contacted", "Qualified", "Converted", "Lost"},
			Description: "Pipeline status"},
		{Name: "follow_up", Type: types.FieldString, Required: true,
			Description: "Follow-up date, ISO format YYYY-MM-DD"},
		{Name: "remarks", Type: types.FieldString, Required: true,
			Description: "Free-form notes"},
	},
	types.IntentViewLeads: {
		{Name: "lead_status", Type: types.FieldEnum, Required: true,
			Values:      []string{"New", "Contacted", "Qualified", "Converted", "Lost"},
			Description: "Status to filter by"},
		{Name: "query", Type: types.FieldString, Required: false,
			Description: "Free-text search; supersedes the structured filters"},
		{Name: "show_all", Type: types.FieldBool, Required: false,
			Description: "True when the user wants everything, unfiltered"},
	},
	types.IntentEditLeads: {
		{Name: "query", Type: types.FieldString, Required: true,
			Description: "Free-text search identifying the lead to edit"},
		{Name: "edit_instruction", Type: types.FieldString, Required: true,
			Description: "What should change"},
	},
	types.IntentDeleteLeads: {
		{Name: "query", Type: types.FieldString, Required: true,
			Description: "Free-text search identifying the lead to delete"},
	},
	types.IntentFollowUpLeads: {
		{Name: "query", Type: types.FieldString, Required: true,
			Description: "Free-text search identifying the lead to follow up"},
		{Name: "follow_up_date", Type: types.FieldString, Required: true,
			Description: "New follow-up date, ISO format YYYY-MM-DD"},
	},
	types.IntentViewAnalytics: {
		{Name: "metric", Type: types.FieldEnum, Required: true,
			Values:      []string{"views", "engagement", "leads"},
			Description: "Metric to report"},
		{Name: "start_date", Type: types.FieldString, Required: true,
			Description: "Range start, ISO format YYYY-MM-DD"},
		{Name: "end_date", Type: types.FieldString, Required: true,
			Description: "Range end, ISO format YYYY-MM-DD"},
	},
}

// SchemaFor returns the ordered field schema for an intent. Conversational
// intents and labels outside the closed set have no schema.
func SchemaFor(intent types.Intent) ([]types.FieldSpec, error) {
	spec, ok := schemas[intent]
	if !ok {
		return nil, &ErrUnknownIntent{Intent: intent}
	}
	return spec, nil
}

// HasSchema reports whether the intent carries a payload schema at all.
func HasSchema(intent types.Intent) bool {
	_, ok := schemas[intent]
	return ok
}
