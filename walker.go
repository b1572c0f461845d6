package intake

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gobwas/glob"

	"github.com/deepnoodle-ai/intake/schema"
)

// session drives one walk over a schema tree. It owns the navigation stack
// and the dialog for the duration of the parse; nothing here is safe for
// concurrent use, and nothing needs to be.
type session struct {
	dialog Dialog
	stack  Stack
	logger *slog.Logger
}

func newSession(dialog Dialog, opts sessionOptions) *session {
	return &session{
		dialog: dialog,
		logger: opts.logger,
	}
}

// walk resolves one schema node into a value. The bool result reports that
// the user backtracked out of this node entirely; the caller owns what that
// means (re-ask its previous decision, or pass the signal further up).
// Exactly one frame is pushed per walk call, so stack depth always equals
// recursion depth.
func (s *session) walk(ctx context.Context, node *schema.Node, label, doc string) (any, bool, error) {
	s.stack.Push(Frame{Kind: node.Kind, Label: label, Variant: -1})
	defer s.stack.Pop()
	s.logger.Debug("walk", "kind", node.Kind, "label", label, "depth", s.stack.Depth())

	switch node.Kind {
	case schema.Null:
		return nil, false, nil
	case schema.Bool:
		return s.walkBool(ctx, node, label, doc)
	case schema.Integer, schema.Number, schema.String:
		return s.walkLeaf(ctx, node, label, doc)
	case schema.Optional:
		return s.walkOptional(ctx, node, label, doc)
	case schema.Sequence:
		return s.walkSequence(ctx, node, label, doc)
	case schema.Enum:
		return s.walkEnum(ctx, node, label, doc)
	case schema.Struct:
		return s.walkStruct(ctx, node, label, doc)
	default:
		return nil, false, fmt.Errorf("intake: unsupported schema kind %q at %s", node.Kind, label)
	}
}

// show issues one prompt. Cancellation — whether the user's or the
// context's — surfaces as ErrAborted here, so every prompt point checks it.
func (s *session) show(ctx context.Context, in *DialogInput) (*DialogOutput, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAborted, err)
	}
	out, err := s.dialog.Show(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("intake: dialog: %w", err)
	}
	if out == nil {
		return nil, fmt.Errorf("intake: dialog returned no output")
	}
	if out.Canceled {
		s.logger.Debug("session canceled", "prompt", in.Prompt, "depth", s.stack.Depth())
		return nil, ErrAborted
	}
	if out.Backtrack {
		s.logger.Debug("backtrack", "prompt", in.Prompt, "depth", s.stack.Depth())
	}
	return out, nil
}

func (s *session) walkBool(ctx context.Context, node *schema.Node, label, doc string) (any, bool, error) {
	out, err := s.show(ctx, &DialogInput{
		Prompt:  label,
		Hint:    promptHint("bool", node, doc),
		Confirm: true,
	})
	if err != nil {
		return nil, false, err
	}
	if out.Backtrack {
		return nil, true, nil
	}
	return out.Confirmed, false, nil
}

// walkLeaf collects a string, integer, or number. An answer that fails to
// parse as the target type is re-asked in place: no frame is pushed or
// popped, and the failure never leaves this handler.
func (s *session) walkLeaf(ctx context.Context, node *schema.Node, label, doc string) (any, bool, error) {
	var kindName string
	var convert func(string) (any, error)

	switch node.Kind {
	case schema.Integer:
		kindName = "int"
		convert = func(text string) (any, error) {
			return strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		}
	case schema.Number:
		kindName = "number"
		convert = func(text string) (any, error) {
			return strconv.ParseFloat(strings.TrimSpace(text), 64)
		}
	case schema.String:
		kindName = "string"
		var matcher glob.Glob
		if node.Match != "" {
			g, err := glob.Compile(node.Match)
			if err != nil {
				return nil, false, fmt.Errorf("intake: %s: invalid match pattern %q: %w", label, node.Match, err)
			}
			matcher = g
		}
		convert = func(text string) (any, error) {
			if matcher != nil && !matcher.Match(text) {
				return nil, fmt.Errorf("must match %q", node.Match)
			}
			return text, nil
		}
	}

	validate := func(text string) error {
		_, err := convert(text)
		return err
	}

	for {
		out, err := s.show(ctx, &DialogInput{
			Prompt:   label,
			Hint:     promptHint(kindName, node, doc),
			Validate: validate,
		})
		if err != nil {
			return nil, false, err
		}
		if out.Backtrack {
			return nil, true, nil
		}
		v, convErr := convert(out.Text)
		if convErr != nil {
			s.logger.Debug("answer rejected", "label", label, "answer", out.Text, "reason", convErr)
			continue
		}
		return v, false, nil
	}
}

// walkOptional asks whether a value should be provided at all. Declining
// produces nil with no recursion; a backtrack out of the inner schema lands
// back on this yes/no question rather than escaping further.
func (s *session) walkOptional(ctx context.Context, node *schema.Node, label, doc string) (any, bool, error) {
	for {
		out, err := s.show(ctx, &DialogInput{
			Prompt:  fmt.Sprintf("Provide %s?", label),
			Hint:    promptHint("optional", node, doc),
			Confirm: true,
		})
		if err != nil {
			return nil, false, err
		}
		if out.Backtrack {
			return nil, true, nil
		}
		if !out.Confirmed {
			return nil, false, nil
		}
		v, back, err := s.walk(ctx, node.Inner, label, doc)
		if err != nil {
			return nil, false, err
		}
		if back {
			continue
		}
		return v, false, nil
	}
}

// walkSequence collects elements one at a time. The first MinItems elements
// are required and collected without asking; after that each element is
// preceded by an "add another?" confirm that defaults to no. A backtrack
// anywhere in the loop sheds the newest element and re-offers the confirm;
// with nothing collected yet it escapes to the caller.
func (s *session) walkSequence(ctx context.Context, node *schema.Node, label, doc string) (any, bool, error) {
	items := newPartial(schema.Sequence)
	for {
		n := items.len()
		s.stack.Top().Items = n

		if node.MaxItems > 0 && n >= node.MaxItems {
			break
		}
		if n >= node.MinItems {
			out, err := s.show(ctx, &DialogInput{
				Prompt:  fmt.Sprintf("Add an item to %s?", label),
				Hint:    promptHint("sequence", node, doc),
				Confirm: true,
				Default: "false",
			})
			if err != nil {
				return nil, false, err
			}
			if out.Backtrack {
				if n == 0 {
					return nil, true, nil
				}
				items.dropLast()
				continue
			}
			if !out.Confirmed {
				break
			}
		}

		v, back, err := s.walk(ctx, node.Item, fmt.Sprintf("%s[%d]", label, n), "")
		if err != nil {
			return nil, false, err
		}
		if back {
			if items.len() == 0 {
				return nil, true, nil
			}
			items.dropLast()
			continue
		}
		items.add("", v)
	}
	return items.value(), false, nil
}

// walkEnum asks for a variant, then collects its payload. Unit variants
// (no payload, or an empty struct payload) skip the recursion and produce
// the bare variant name; payload variants produce {name: payload}. A
// backtrack out of the payload re-asks the variant choice.
func (s *session) walkEnum(ctx context.Context, node *schema.Node, label, doc string) (any, bool, error) {
	options := make([]DialogOption, len(node.Variants))
	for i, v := range node.Variants {
		options[i] = DialogOption{Value: v.Name, Label: v.Name, Description: v.Description}
	}

	for {
		s.stack.Top().Variant = -1
		out, err := s.show(ctx, &DialogInput{
			Prompt:  label,
			Hint:    promptHint("enum", node, doc),
			Options: options,
		})
		if err != nil {
			return nil, false, err
		}
		if out.Backtrack {
			return nil, true, nil
		}
		if out.Index < 0 || out.Index >= len(node.Variants) {
			return nil, false, fmt.Errorf("intake: dialog selected option %d of %d at %s", out.Index, len(node.Variants), label)
		}

		variant := node.Variants[out.Index]
		if variant.IsUnit() {
			return variant.Name, false, nil
		}

		s.stack.Top().Variant = out.Index
		payload, back, err := s.walk(ctx, variant.Payload, label+"."+variant.Name, variant.Description)
		if err != nil {
			return nil, false, err
		}
		if back {
			continue
		}
		result := newPartial(schema.Enum)
		result.add(variant.Name, payload)
		return result.value(), false, nil
	}
}

// walkStruct collects fields strictly in declared order. A backtrack at
// field i discards that field's progress and re-runs field i-1 from
// scratch; at field 0 it escapes to the caller.
func (s *session) walkStruct(ctx context.Context, node *schema.Node, label, doc string) (any, bool, error) {
	fields := newPartial(schema.Struct)
	i := 0
	for i < len(node.Fields) {
		s.stack.Top().Field = i
		field := node.Fields[i]

		v, back, err := s.walk(ctx, field.Schema, joinLabel(label, field.Name), field.Doc)
		if err != nil {
			return nil, false, err
		}
		if back {
			if i == 0 {
				return nil, true, nil
			}
			i--
			fields.dropLast()
			s.logger.Debug("re-entering field", "label", joinLabel(label, node.Fields[i].Name))
			continue
		}
		fields.add(field.Name, v)
		i++
	}
	return fields.value(), false, nil
}

func joinLabel(label, name string) string {
	if label == "" {
		return name
	}
	return label + "." + name
}

// promptHint builds the help text for a node: the expected type, then the
// field doc or node description, whichever is more specific.
func promptHint(kindName string, node *schema.Node, doc string) string {
	text := node.Description
	if doc != "" {
		text = doc
	}
	if text == "" {
		return kindName
	}
	return kindName + ": " + text
}
