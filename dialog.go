package intake

import (
	"context"
	"fmt"
)

// Dialog is the prompting collaborator: the UI layer a parse session drives.
//
// The prompt type is determined by which fields of DialogInput are set:
//
//   - Confirm mode: Confirm=true (yes/no question)
//   - Select mode: Options set (pick one)
//   - MultiSelect mode: Options set and MultiSelect=true (pick many)
//   - Input mode: none of the above (free-form text)
//
// Every mode must let the user answer, backtrack (undo the previous step),
// or cancel the whole session; the three outcomes are reported through
// DialogOutput, never through the error return. Errors are reserved for the
// dialog itself failing (closed input, broken pipe).
type Dialog interface {
	// Show presents one prompt and blocks until the user responds.
	Show(ctx context.Context, in *DialogInput) (*DialogOutput, error)
}

// DialogFunc adapts a function to the Dialog interface.
type DialogFunc func(ctx context.Context, in *DialogInput) (*DialogOutput, error)

func (f DialogFunc) Show(ctx context.Context, in *DialogInput) (*DialogOutput, error) {
	return f(ctx, in)
}

// DialogInput describes one prompt.
type DialogInput struct {
	// Prompt is the question being asked, usually the path of the value
	// being collected ("server.ports[2]").
	Prompt string

	// Hint is short help text shown beside the prompt: the expected type
	// plus any doc text from the schema.
	Hint string

	// Confirm marks a yes/no question; the answer arrives in Confirmed.
	Confirm bool

	// Options, when non-empty, makes this a selection prompt. The answer
	// arrives in Index (single-select) or Values (multi-select).
	Options []DialogOption

	// MultiSelect allows picking several options.
	MultiSelect bool

	// Default is the answer used when the user submits an empty line.
	// For Confirm prompts it is "true" or "false".
	Default string

	// Validate optionally rejects text input with a message shown to the
	// user. Dialogs that honor it re-prompt locally on rejection; the
	// walker re-checks every answer regardless.
	Validate func(string) error
}

// DialogOption is one selectable choice.
type DialogOption struct {
	Value       string
	Label       string
	Description string
}

// DialogOutput is the user's response to one prompt. Exactly one of the
// answer fields is meaningful, or Backtrack/Canceled is set.
type DialogOutput struct {
	// Confirmed answers a Confirm prompt.
	Confirmed bool

	// Index is the selected option for single-select prompts.
	Index int

	// Values are the selected option values for multi-select prompts.
	Values []string

	// Text answers an input prompt.
	Text string

	// Backtrack means the user asked to undo the previous step and re-answer
	// it. It is a navigation signal, not an error.
	Backtrack bool

	// Canceled means the user quit the whole session.
	Canceled bool
}

// Answer constructors for scripting dialogs.

// Text answers an input prompt.
func Text(s string) *DialogOutput { return &DialogOutput{Text: s} }

// Yes answers a confirm prompt affirmatively.
func Yes() *DialogOutput { return &DialogOutput{Confirmed: true} }

// No answers a confirm prompt negatively.
func No() *DialogOutput { return &DialogOutput{} }

// Pick answers a single-select prompt with the option at index i.
func Pick(i int) *DialogOutput { return &DialogOutput{Index: i} }

// Back signals a backtrack.
func Back() *DialogOutput { return &DialogOutput{Backtrack: true} }

// Quit cancels the session.
func Quit() *DialogOutput { return &DialogOutput{Canceled: true} }

// ScriptDialog replays a fixed sequence of responses. It backs the test
// suite and non-interactive replays of recorded sessions.
type ScriptDialog struct {
	steps []*DialogOutput
	pos   int
	log   []DialogInput
}

var _ Dialog = &ScriptDialog{}

// NewScriptDialog creates a dialog that answers prompts from steps, in order.
func NewScriptDialog(steps ...*DialogOutput) *ScriptDialog {
	return &ScriptDialog{steps: steps}
}

func (d *ScriptDialog) Show(ctx context.Context, in *DialogInput) (*DialogOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.log = append(d.log, *in)
	if d.pos >= len(d.steps) {
		return nil, fmt.Errorf("script exhausted after %d responses (prompt %q)", d.pos, in.Prompt)
	}
	out := d.steps[d.pos]
	d.pos++
	return out, nil
}

// Remaining reports how many scripted responses are unused.
func (d *ScriptDialog) Remaining() int {
	return len(d.steps) - d.pos
}

// Prompts returns the inputs shown so far, in order.
func (d *ScriptDialog) Prompts() []DialogInput {
	return d.log
}

// AutoDialog answers every prompt with its default: confirms follow Default,
// selects pick the default (or first) option, inputs return Default. An
// input prompt with no default cancels the session, since re-answering it
// would never converge.
type AutoDialog struct{}

var _ Dialog = &AutoDialog{}

func (d *AutoDialog) Show(ctx context.Context, in *DialogInput) (*DialogOutput, error) {
	if in.Confirm {
		return &DialogOutput{Confirmed: in.Default == "true"}, nil
	}
	if len(in.Options) > 0 {
		for i, opt := range in.Options {
			if opt.Value == in.Default {
				return &DialogOutput{Index: i}, nil
			}
		}
		return &DialogOutput{Index: 0}, nil
	}
	if in.Default == "" {
		return &DialogOutput{Canceled: true}, nil
	}
	return &DialogOutput{Text: in.Default}, nil
}
