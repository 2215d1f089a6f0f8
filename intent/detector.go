package intent

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"convoagent/structured"
	"convoagent/types"
)

// Change is the verdict of one change-detection pass.
type Change struct {
	Changed   bool
	NewIntent types.Intent
	Kind      types.ChangeKind
}

// Detector decides whether the latest message abandons the committed intent.
type Detector interface {
	Detect(ctx context.Context, committed types.Intent, transcript, latest string) (Change, error)
}

// shortReplyTokens: replies at or below this length are assumed to answer a
// pending clarification, not to start a new intent.
const shortReplyTokens = 2

const (
	detectToolName = "report_intent_change"
	detectToolDesc = "Report whether the user's latest message stays on the current task or switches to a different one."
)

type detectInput struct {
	Committed  types.Intent
	Transcript string
	Latest     string
}

type detectVerdict struct {
	Verdict   string `json:"verdict" jsonschema:"required,enum=same_intent,enum=intent_changed,description=Whether the latest message continues the current task"`
	NewIntent string `json:"new_intent,omitempty" jsonschema:"description=The new intent label when verdict is intent_changed"`
}

// ModelChangeDetector classifies the latest message against the committed
// intent via a forced tool call. Model errors come back alongside a "no
// change" verdict so the caller decides the policy; unrecognized labels
// degrade to "no change" with a warning.
type ModelChangeDetector struct {
	chain  *structured.Chain[*detectInput, detectVerdict]
	logger *slog.Logger
}

func NewModelChangeDetector(chatModel model.ToolCallingChatModel, logger *slog.Logger) (*ModelChangeDetector, error) {
	if logger == nil {
		logger = slog.Default()
	}
	chain, err := structured.NewChain[*detectInput, detectVerdict](
		chatModel,
		buildDetectPrompt,
		detectToolName,
		detectToolDesc,
	)
	if err != nil {
		return nil, fmt.Errorf("create change detector chain: %w", err)
	}
	return &ModelChangeDetector{chain: chain, logger: logger}, nil
}

var _ Detector = (*ModelChangeDetector)(nil)

func (d *ModelChangeDetector) Detect(ctx context.Context, committed types.Intent, transcript, latest string) (Change, error) {
	unchanged := Change{Kind: types.ChangeNone}
	if committed == "" {
		return unchanged, nil
	}
	if latest == types.UploadSentinel {
		return unchanged, nil
	}
	if len(strings.Fields(latest)) <= shortReplyTokens {
		return unchanged, nil
	}

	verdict, err := d.chain.Invoke(ctx, &detectInput{
		Committed:  committed,
		Transcript: transcript,
		Latest:     latest,
	})
	if err != nil {
		return unchanged, fmt.Errorf("detect intent change: %w", err)
	}
	if verdict.Verdict != "intent_changed" {
		return unchanged, nil
	}

	newIntent, ok := types.ParseIntent(verdict.NewIntent)
	if !ok {
		d.logger.Warn("change detector returned unknown label, keeping committed intent",
			"intent", committed, "raw", verdict.NewIntent)
		return unchanged, nil
	}
	if newIntent == committed {
		return unchanged, nil
	}

	kind := types.ChangeCompleteShift
	if newIntent.Category() == committed.Category() {
		kind = types.ChangeRefinement
	}
	return Change{Changed: true, NewIntent: newIntent, Kind: kind}, nil
}

func buildDetectPrompt(ctx context.Context, in *detectInput) ([]*schema.Message, error) {
	labels := make([]string, 0, len(types.AllIntents))
	for _, i := range types.AllIntents {
		labels = append(labels, string(i))
	}
	systemPrompt := fmt.Sprintf(`You watch an ongoing task in a content and lead management assistant.

The user is currently working on: %s

Decide whether the latest message continues that task (answers to questions, extra details, corrections all count as continuing) or clearly switches to a different task. When it switches, pick the new label from:
%s

Call the '%s' tool with the result.`, in.Committed, strings.Join(labels, ", "), detectToolName)

	return []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(types.FormatTranscriptSection(in.Transcript, in.Latest)),
	}, nil
}
