// Package agent orchestrates one conversation turn end to end: intent
// commitment, payload extraction, completion, suspension and execution. All
// component failures are absorbed at the turn boundary so the conversation
// can always continue.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"convoagent/complete"
	"convoagent/executor"
	"convoagent/extract"
	"convoagent/intent"
	"convoagent/media"
	"convoagent/types"
)

// Config carries the agent's collaborators. Classifier, Detector, Extractor,
// Completer and Executors are required; Uploader is only needed when turns
// can carry attachments.
type Config struct {
	Classifier intent.Classifier
	Detector   intent.Detector
	Extractor  extract.Extractor
	Completer  *complete.Completer
	Executors  *executor.Set
	Uploader   media.Uploader
	Sessions   *Sessions
	Logger     *slog.Logger
}

// Agent drives the conversation state machine.
type Agent struct {
	classifier intent.Classifier
	detector   intent.Detector
	extractor  extract.Extractor
	completer  *complete.Completer
	executors  *executor.Set
	uploader   media.Uploader
	sessions   *Sessions
	logger     *slog.Logger
}

func New(cfg Config) (*Agent, error) {
	if cfg.Classifier == nil || cfg.Detector == nil || cfg.Extractor == nil ||
		cfg.Completer == nil || cfg.Executors == nil {
		return nil, errors.New("agent: classifier, detector, extractor, completer and executors are all required")
	}
	sessions := cfg.Sessions
	if sessions == nil {
		var err error
		sessions, err = NewSessions(DefaultSessionCapacity)
		if err != nil {
			return nil, err
		}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Agent{
		classifier: cfg.Classifier,
		detector:   cfg.Detector,
		extractor:  cfg.Extractor,
		completer:  cfg.Completer,
		executors:  cfg.Executors,
		uploader:   cfg.Uploader,
		sessions:   sessions,
		logger:     logger,
	}, nil
}

// ProcessTurn runs one user turn. The returned error covers infrastructure
// problems only; everything that can go wrong mid-conversation comes back in
// TurnResult.Error with the state parked at a resumable phase.
func (a *Agent) ProcessTurn(ctx context.Context, conversationID, userID, message string, attachments []types.Attachment) (*types.TurnResult, error) {
	if conversationID == "" {
		return nil, errors.New("agent: conversation id is required")
	}

	h := a.sessions.Acquire(conversationID)
	defer h.Release()

	state := h.State()
	// A completed conversation starts over on its next message.
	if state.Phase == types.PhaseCompleted {
		state = h.Reset()
	}
	state.LastError = ""
	state.Result = ""

	if len(attachments) > 0 {
		url, err := a.storeAttachments(ctx, userID, attachments)
		if err != nil {
			state.LastError = err.Error()
			a.logger.Error("attachment upload failed", "conversation", conversationID, "err", err)
			res := a.turnResult(state)
			res.Error = "I couldn't store your file. Please try uploading it again."
			return res, nil
		}
		state.Payload["media_file"] = url
	}

	isSentinel := message == types.UploadSentinel
	if !isSentinel {
		state.AppendUserTurn(message)
	}

	if isSentinel || (state.AwaitingUpload != nil && strings.TrimSpace(message) == "") {
		return a.resumeFromUpload(ctx, state, userID)
	}

	if strings.TrimSpace(message) == "" {
		if len(attachments) > 0 && state.CommittedIntent == "" {
			state.Result = "Got your file. What would you like to do with it?"
		} else if state.CommittedIntent == "" {
			state.Result = "Tell me what you'd like to do. I can create content, manage leads, or pull up analytics."
		}
		if state.Result != "" {
			return a.turnResult(state), nil
		}
	}

	if state.CommittedIntent == "" {
		label, err := a.classifier.Classify(ctx, state.Transcript)
		if err != nil {
			// Terminal for the turn: nothing is committed, the user retries.
			state.LastError = err.Error()
			a.logger.Error("intent classification failed", "conversation", conversationID, "err", err)
			res := a.turnResult(state)
			res.Error = "I couldn't work out what you need just now. Could you say that again?"
			return res, nil
		}
		state.CommittedIntent = label
	} else {
		change, err := a.detector.Detect(ctx, state.CommittedIntent, state.Transcript, message)
		if err != nil {
			a.logger.Warn("change detection failed, keeping committed intent",
				"intent", state.CommittedIntent, "err", err)
		}
		if change.Changed {
			a.logger.Info("intent changed",
				"from", state.CommittedIntent, "to", change.NewIntent, "kind", change.Kind)
			if change.Kind == types.ChangeRefinement {
				state.ApplyRefinement(change.NewIntent)
			} else {
				state.ApplyShift(change.NewIntent)
			}
		}
	}

	if state.CommittedIntent.Conversational() {
		return a.execute(ctx, state, userID, types.Payload{"user_message": message})
	}

	extractionFailed := false
	updated, err := a.extractor.Extract(ctx, state.CommittedIntent, state.Transcript, state.Payload)
	if err != nil {
		var exErr *extract.ExtractionError
		if !errors.As(err, &exErr) {
			state.LastError = err.Error()
			a.logger.Error("extraction failed", "intent", state.CommittedIntent, "err", err)
			res := a.turnResult(state)
			res.Error = "I had trouble reading that. Could you rephrase?"
			return res, nil
		}
		// Extraction is non-terminal: the collected payload survives and
		// completion re-asks whatever is still missing.
		extractionFailed = true
		state.LastError = err.Error()
		a.logger.Warn("extraction produced no usable JSON, payload preserved",
			"intent", state.CommittedIntent, "err", err)
	} else {
		state.Payload = updated
	}

	res, err := a.finishTurn(ctx, state, userID)
	if res != nil && extractionFailed && res.Error == "" && (res.AwaitingUser || res.AwaitingUpload) {
		res.Error = "I didn't quite catch that. Could you say it differently?"
	}
	return res, err
}

// resumeFromUpload handles the sentinel (or a bare attachment) while the
// conversation is parked on an upload.
func (a *Agent) resumeFromUpload(ctx context.Context, state *types.ConversationState, userID string) (*types.TurnResult, error) {
	if state.AwaitingUpload == nil {
		state.Result = "There's nothing waiting for an upload right now."
		return a.turnResult(state), nil
	}
	if !state.Payload.Has("media_file") {
		state.Result = fmt.Sprintf("I still need the %s file. Please attach it.", state.AwaitingUpload.Kind)
		return a.turnResult(state), nil
	}
	state.AwaitingUpload = nil
	state.AwaitingUser = false
	return a.finishTurn(ctx, state, userID)
}

// finishTurn runs completion and, when the payload is ready, execution. It
// always leaves the state in a resting phase.
func (a *Agent) finishTurn(ctx context.Context, state *types.ConversationState, userID string) (*types.TurnResult, error) {
	verdict, err := a.completer.Complete(ctx, state.CommittedIntent, state.Payload, state.Transcript, state.PayloadComplete)
	if err != nil {
		state.LastError = err.Error()
		a.logger.Error("completion failed", "intent", state.CommittedIntent, "err", err)
		res := a.turnResult(state)
		res.Error = "I lost track of what we were doing. Could you start that request again?"
		return res, nil
	}

	switch {
	case verdict.Clarification != nil:
		state.Phase = types.PhaseAwaitingClarification
		state.PendingClarification = verdict.Clarification
		state.AwaitingUser = true
		state.AwaitingUpload = nil
		state.Result = verdict.Clarification.Question
		return a.turnResult(state), nil

	case verdict.Upload != nil:
		// An outstanding upload request still waits on the user.
		state.Phase = types.PhaseAwaitingUpload
		state.AwaitingUpload = verdict.Upload
		state.AwaitingUser = true
		state.PendingClarification = nil
		state.Result = fmt.Sprintf("Please upload the %s you'd like to use.", verdict.Upload.Kind)
		return a.turnResult(state), nil
	}

	state.PayloadComplete = true
	state.PendingClarification = nil
	state.AwaitingUser = false
	state.AwaitingUpload = nil
	return a.execute(ctx, state, userID, state.Payload)
}

func (a *Agent) execute(ctx context.Context, state *types.ConversationState, userID string, payload types.Payload) (*types.TurnResult, error) {
	out, err := a.executors.Execute(ctx, state.CommittedIntent, userID, payload)
	if err != nil {
		state.LastError = err.Error()
		a.logger.Error("execution failed", "intent", state.CommittedIntent, "err", err)
		res := a.turnResult(state)
		if errors.Is(err, executor.ErrMissingUserID) {
			res.Error = "I can't do that without knowing who you are. Please sign in and try again."
		} else {
			res.Error = "Something went wrong while carrying that out. Please try again."
		}
		return res, nil
	}

	state.Result = out
	state.Phase = types.PhaseCompleted
	return a.turnResult(state), nil
}

// storeAttachments uploads every attachment and returns the URL of the last
// one, which becomes the payload's media_file.
func (a *Agent) storeAttachments(ctx context.Context, userID string, attachments []types.Attachment) (string, error) {
	if a.uploader == nil {
		return "", errors.New("agent: attachments received but no uploader is configured")
	}
	var url string
	for _, att := range attachments {
		key := fmt.Sprintf("%s/%s-%s", userID, uuid.NewString(), att.Name)
		u, err := a.uploader.Put(ctx, key, att.Data, att.ContentType)
		if err != nil {
			return "", fmt.Errorf("store attachment %q: %w", att.Name, err)
		}
		url = u
	}
	return url, nil
}

func (a *Agent) turnResult(state *types.ConversationState) *types.TurnResult {
	res := &types.TurnResult{
		Result:          state.Result,
		AwaitingUser:    state.AwaitingUser,
		AwaitingUpload:  state.AwaitingUpload != nil,
		Payload:         state.Payload.Clone(),
		PayloadComplete: state.PayloadComplete,
		Intent:          string(state.CommittedIntent),
	}
	if state.PendingClarification != nil {
		res.Options = state.PendingClarification.Options
	}
	return res
}
