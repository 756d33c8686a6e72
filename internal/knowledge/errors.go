package knowledge

import "fmt"

// LoadError is returned when a knowledge base cannot be read, parsed or
// validated.  It is fatal to the chatbot only; callers decide whether to
// refuse to start or to continue with Empty().
type LoadError struct {
	Path string
	Op   string // read, parse, validate
	Err  error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("knowledge base %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("knowledge base %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// FieldError names the intent record and the field that failed validation.
type FieldError struct {
	Index int
	Tag   string
	Field string
}

func (e *FieldError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("intent %d: missing or empty %q", e.Index, e.Field)
	}
	return fmt.Sprintf("intent %d (%s): missing or empty %q", e.Index, e.Tag, e.Field)
}
