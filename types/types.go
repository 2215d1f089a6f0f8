package types

// Phase is the explicit conversation phase the caller supplies and consults.
// A turn always leaves the state in exactly one resting phase.
type Phase string

const (
	PhaseFresh                 Phase = "fresh"
	PhaseAwaitingClarification Phase = "awaiting_clarification"
	PhaseAwaitingUpload        Phase = "awaiting_upload"
	PhaseCompleted             Phase = "completed"
)

// ChangeKind classifies the most recent intent transition.
type ChangeKind string

const (
	ChangeNone          ChangeKind = "none"
	ChangeRefinement    ChangeKind = "refinement"
	ChangeCompleteShift ChangeKind = "complete_shift"
)

// UploadKind is the kind of binary attachment a suspended turn waits for.
type UploadKind string

const (
	UploadImage UploadKind = "image"
	UploadVideo UploadKind = "video"
)

// UploadSentinel is the reserved message the caller sends to resume a turn
// suspended on an upload. It is never forwarded to the model.
const UploadSentinel = "__upload_complete__"

// Option is one fixed choice offered with a clarification question.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Clarification is a question posed for a missing field, with optional fixed
// choices. An empty Options slice means a free-text answer is expected.
type Clarification struct {
	Field    string   `json:"field"`
	Question string   `json:"question"`
	Options  []Option `json:"options,omitempty"`
}

// UploadRequest is the out-of-band suspension for binary-file turns.
type UploadRequest struct {
	Kind UploadKind `json:"kind"`
}

// Payload is the partial structured data collected for an intent. A missing
// key or a nil value both mean "not yet known".
type Payload map[string]any

// Clone returns a shallow copy so callers can compare before/after a merge.
func (p Payload) Clone() Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// String returns payload[key] as a string, or "" when the key is absent, nil
// or not a string.
func (p Payload) String(key string) string {
	v, ok := p[key]
	if !ok || v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Has reports whether the key holds a usable value. Empty strings count as
// missing so a model that extracts "" does not satisfy a required field.
func (p Payload) Has(key string) bool {
	v, ok := p[key]
	if !ok || v == nil {
		return false
	}
	if s, isStr := v.(string); isStr {
		return s != ""
	}
	return true
}

// Bool returns payload[key] as a bool. Non-bool values read as false.
func (p Payload) Bool(key string) bool {
	v, ok := p[key]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// ConversationState is the single mutable record for one active conversation.
// It is created on the first message of a session, mutated turn by turn, and
// replaced with a fresh instance when a completed conversation receives a new
// message.
type ConversationState struct {
	Phase Phase `json:"phase"`

	// Transcript concatenates all user turns of this conversation and is the
	// context for classification, change detection and extraction.
	Transcript string `json:"transcript"`

	CommittedIntent Intent     `json:"committed_intent,omitempty"`
	PreviousIntent  Intent     `json:"previous_intent,omitempty"`
	ChangeKind      ChangeKind `json:"intent_change_kind"`

	Payload         Payload `json:"payload"`
	PayloadComplete bool    `json:"payload_complete"`

	PendingClarification *Clarification `json:"pending_clarification,omitempty"`
	AwaitingUser         bool           `json:"awaiting_user"`
	AwaitingUpload       *UploadRequest `json:"awaiting_upload,omitempty"`

	Result    string `json:"result,omitempty"`
	LastError string `json:"last_error,omitempty"`
}

func NewConversationState() *ConversationState {
	return &ConversationState{
		Phase:      PhaseFresh,
		ChangeKind: ChangeNone,
		Payload:    Payload{},
	}
}

// AppendUserTurn adds a user message to the running transcript.
func (s *ConversationState) AppendUserTurn(message string) {
	if message == "" {
		return
	}
	if s.Transcript == "" {
		s.Transcript = message
		return
	}
	s.Transcript += "\n" + message
}

// ApplyShift performs the complete-shift reset: the payload is cleared before
// the next extraction runs so fields from the previous intent never leak into
// the new one.
func (s *ConversationState) ApplyShift(newIntent Intent) {
	s.PreviousIntent = s.CommittedIntent
	s.CommittedIntent = newIntent
	s.ChangeKind = ChangeCompleteShift
	s.Payload = Payload{}
	s.PayloadComplete = false
	s.PendingClarification = nil
	s.AwaitingUser = false
	s.AwaitingUpload = nil
}

// ApplyRefinement relabels the intent and keeps the collected payload.
func (s *ConversationState) ApplyRefinement(newIntent Intent) {
	s.PreviousIntent = s.CommittedIntent
	s.CommittedIntent = newIntent
	s.ChangeKind = ChangeRefinement
	s.PayloadComplete = false
	s.PendingClarification = nil
}

// TurnResult is what one call to the turn API hands back to the caller.
type TurnResult struct {
	Result          string   `json:"result"`
	AwaitingUser    bool     `json:"awaiting_user"`
	AwaitingUpload  bool     `json:"awaiting_upload"`
	Options         []Option `json:"clarification_options,omitempty"`
	Payload         Payload  `json:"payload"`
	PayloadComplete bool     `json:"payload_complete"`
	Intent          string   `json:"intent"`
	Error           string   `json:"error,omitempty"`
}

// Attachment is a binary file sent alongside a turn.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}
