package types

// FieldType describes the JSON shape expected for a payload field.
type FieldType string

const (
	FieldString FieldType = "string"
	FieldEnum   FieldType = "enum"
	FieldBool   FieldType = "bool"
	FieldList   FieldType = "list"
)

// FieldSpec describes one payload field of an intent schema. Declaration
// order inside a schema is the order clarifications are asked in.
type FieldSpec struct {
	Name        string
	Type        FieldType
	Description string

	// Values enumerates the legal values for enum fields.
	Values []string

	Required bool

	// When gates a conditional requirement on the payload collected so far.
	// Nil means unconditional.
	When func(Payload) bool
}

// RequiredNow reports whether the field is required given the payload so far.
func (f FieldSpec) RequiredNow(p Payload) bool {
	if !f.Required {
		return false
	}
	if f.When == nil {
		return true
	}
	return f.When(p)
}
