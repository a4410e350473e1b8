package screen

import "errors"

var (
	// ErrInvalidTransition is returned when an action is not allowed in the
	// current state, e.g. opening a form while another one is submitting.
	ErrInvalidTransition = errors.New("action not allowed in the current state")
	// ErrClosed is returned by every action after Close.
	ErrClosed = errors.New("screen is closed")
	// ErrRecordNotListed is returned when an id is not in the current list.
	ErrRecordNotListed = errors.New("record is not in the list")
)

// Mode tells a create form from an edit form.
type Mode int

const (
	Create Mode = iota
	Edit
)

func (m Mode) String() string {
	if m == Edit {
		return "edit"
	}
	return "create"
}

// State is the screen's current phase. The concrete types are Loading,
// Ready, FormOpen, Submitting and ConfirmingDelete.
type State interface {
	Name() string
	isState()
}

// Loading is the phase before the first list response.
type Loading struct{}

// Ready shows the list and accepts new actions.
type Ready struct{}

// FormOpen is an editable create or edit form.
type FormOpen struct {
	Mode     Mode
	RecordID string
	Draft    Draft
	// FieldErrors holds inline validation messages by field key.
	FieldErrors map[string]string
	// Error is the last submit failure shown to the user.
	Error string
}

// Submitting is a form whose request is in flight.
type Submitting struct {
	Mode     Mode
	RecordID string
	Draft    Draft
}

// ConfirmingDelete waits for the user to accept or decline a delete.
type ConfirmingDelete struct {
	RecordID string
	// InFlight is set while the accepted delete request runs.
	InFlight bool
}

func (Loading) Name() string          { return "loading" }
func (Ready) Name() string            { return "ready" }
func (FormOpen) Name() string         { return "form_open" }
func (Submitting) Name() string       { return "submitting" }
func (ConfirmingDelete) Name() string { return "confirming_delete" }

func (Loading) isState()          {}
func (Ready) isState()            {}
func (FormOpen) isState()         {}
func (Submitting) isState()       {}
func (ConfirmingDelete) isState() {}
