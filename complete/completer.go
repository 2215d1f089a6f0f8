// Package complete decides whether an intent's payload is ready for
// execution, and if not, which clarification to ask next. Field order comes
// from the schema; the first required-and-missing field wins.
package complete

import (
	"context"
	"log/slog"
	"time"

	"convoagent/clarify"
	"convoagent/registry"
	"convoagent/types"
)

// Result is one completion verdict: ready, waiting on an answer, or waiting
// on a binary upload.
type Result struct {
	Complete      bool
	Clarification *types.Clarification
	Upload        *types.UploadRequest
}

// bypassIntents are the intents where a free-text search query or an explicit
// show-all flag supersedes structured filtering entirely.
var bypassIntents = map[types.Intent]bool{
	types.IntentViewContent:    true,
	types.IntentEditContent:    true,
	types.IntentDeleteContent:  true,
	types.IntentPublishContent: true,
	types.IntentViewLeads:      true,
}

// Completer walks an intent schema against the collected payload.
type Completer struct {
	tone   ToneRewriter
	now    func() time.Time
	logger *slog.Logger
}

func NewCompleter(tone ToneRewriter, now func() time.Time, logger *slog.Logger) *Completer {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Completer{tone: tone, now: now, logger: logger}
}

// Complete evaluates the payload. alreadyComplete short-circuits: completing
// twice must not re-trigger clarification.
func (c *Completer) Complete(ctx context.Context, intent types.Intent, p types.Payload, transcript string, alreadyComplete bool) (Result, error) {
	if alreadyComplete {
		return Result{Complete: true}, nil
	}

	spec, err := registry.SchemaFor(intent)
	if err != nil {
		return Result{}, err
	}

	if bypassIntents[intent] && (p.String("query") != "" || p.Bool("show_all")) {
		return Result{Complete: true}, nil
	}

	normalize(spec, p)
	resolveDates(p, c.now())

	for _, f := range spec {
		if !f.RequiredNow(p) {
			continue
		}
		if p.Has(f.Name) {
			continue
		}
		return Result{Clarification: c.clarification(ctx, intent, f, transcript)}, nil
	}

	if upload := uploadNeeded(intent, p); upload != nil {
		return Result{Upload: upload}, nil
	}
	return Result{Complete: true}, nil
}

func (c *Completer) clarification(ctx context.Context, intent types.Intent, f types.FieldSpec, transcript string) *types.Clarification {
	prompt := clarify.For(intent, f.Name)
	options := prompt.Options
	if len(options) == 0 && f.Type == types.FieldEnum {
		for _, v := range f.Values {
			options = append(options, types.Option{Label: v, Value: v})
		}
	}

	question := prompt.Question
	if c.tone != nil {
		rewritten, err := c.tone.Rewrite(ctx, question, transcript)
		if err != nil {
			// Tone matching is cosmetic; the template always goes through.
			c.logger.Debug("tone rewrite failed, using template", "err", err)
		} else if rewritten != "" {
			question = rewritten
		}
	}

	return &types.Clarification{
		Field:    f.Name,
		Question: question,
		Options:  options,
	}
}

// uploadNeeded reports the binary-upload suspension for content creation with
// user-provided media: every schema field is filled but the file itself has
// not arrived yet.
func uploadNeeded(intent types.Intent, p types.Payload) *types.UploadRequest {
	if intent != types.IntentCreateContent {
		return nil
	}
	if p.String("media") != registry.MediaUpload || p.Has("media_file") {
		return nil
	}
	kind := types.UploadImage
	if p.String("content_type") == "Video" {
		kind = types.UploadVideo
	}
	return &types.UploadRequest{Kind: kind}
}
