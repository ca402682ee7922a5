// Package flow implements the guided-flow wizards as one tagged state
// machine: a closed ordered list of steps, each recording one selection
// under its key and offering the options valid for everything collected so
// far. The three wizards (face tone, body fit, calendar event) are plain
// Definitions over this machine.
package flow

import "errors"

type Kind string

const (
	KindFaceTone Kind = "face_tone"
	KindBodyFit  Kind = "body_fit"
	KindCalendar Kind = "calendar_event"
)

var (
	// ErrNotOffered rejects a selection that was never offered as a button.
	ErrNotOffered = errors.New("selection was not offered at this step")
	// ErrDone rejects input after the final step.
	ErrDone = errors.New("flow already complete")
)

// Step is one position in a wizard. Prompt and Options see every value
// collected before this step. Steps that accept typed input (custom events,
// picked dates) set FreeText and may attach a Validate hook.
type Step struct {
	Name     string
	Key      string
	Prompt   func(collected map[string]string) string
	Options  func(collected map[string]string) []string
	FreeText bool
	Validate func(selection string) error
}

// Definition is the closed step sequence for one wizard kind.
type Definition struct {
	Kind  Kind
	Steps []Step
}

// Machine tracks a single wizard in progress. It is not safe for concurrent
// use; the widget serializes access.
type Machine struct {
	def       Definition
	idx       int
	collected map[string]string
}

func Start(def Definition) *Machine {
	return &Machine{def: def, collected: make(map[string]string)}
}

func (m *Machine) Kind() Kind { return m.def.Kind }

func (m *Machine) Done() bool { return m.idx >= len(m.def.Steps) }

// StepName returns the current step name, or "" once the flow is complete.
func (m *Machine) StepName() string {
	if m.Done() {
		return ""
	}
	return m.def.Steps[m.idx].Name
}

func (m *Machine) Prompt() string {
	if m.Done() {
		return ""
	}
	return m.def.Steps[m.idx].Prompt(m.snapshot())
}

func (m *Machine) Options() []string {
	if m.Done() {
		return nil
	}
	step := m.def.Steps[m.idx]
	if step.Options == nil {
		return nil
	}
	return step.Options(m.snapshot())
}

// Collected returns a copy of everything recorded so far.
func (m *Machine) Collected() map[string]string {
	return m.snapshot()
}

// Advance records the selection for the current step and moves on. The
// selection must have been offered unless the step accepts free text.
// Returns true when the flow has consumed its final step.
func (m *Machine) Advance(selection string) (bool, error) {
	if m.Done() {
		return true, ErrDone
	}
	step := m.def.Steps[m.idx]

	if !step.FreeText && !m.offered(step, selection) {
		return false, ErrNotOffered
	}
	if step.Validate != nil {
		if err := step.Validate(selection); err != nil {
			return false, err
		}
	}

	m.collected[step.Key] = selection
	m.idx++
	return m.Done(), nil
}

func (m *Machine) offered(step Step, selection string) bool {
	if step.Options == nil {
		return false
	}
	for _, opt := range step.Options(m.snapshot()) {
		if opt == selection {
			return true
		}
	}
	return false
}

func (m *Machine) snapshot() map[string]string {
	out := make(map[string]string, len(m.collected))
	for k, v := range m.collected {
		out[k] = v
	}
	return out
}
