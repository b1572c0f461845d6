// Package intake turns a schema describing the shape of a value into an
// interactive terminal session that collects that value. The walker descends
// the schema depth-first, asking one question per leaf or structural choice,
// and folds the answers back into a nested result. At any prompt the user
// can backtrack — undo the previous answer and re-give it — or cancel the
// whole session.
//
// The schema comes from the schema package: built by hand, loaded from a
// YAML/JSON document, or derived from a Go type with schema.Generate.
package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/deepnoodle-ai/intake/schema"
	"github.com/deepnoodle-ai/intake/slogger"
)

// ErrAborted reports that the session ended without a value: the user
// canceled, the context was done, or a backtrack unwound past the root.
var ErrAborted = errors.New("intake: session aborted")

// Option configures a parse session.
type Option func(*sessionOptions)

type sessionOptions struct {
	logger    *slog.Logger
	rootLabel string
}

// WithLogger sets the session logger. The walker logs traversal and
// navigation events at debug level. Logging is off by default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *sessionOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithRootLabel names the root value in prompts. Defaults to "value", or
// the target's type name for ParseInto.
func WithRootLabel(label string) Option {
	return func(o *sessionOptions) {
		if label != "" {
			o.rootLabel = label
		}
	}
}

func applyOptions(opts []Option) sessionOptions {
	options := sessionOptions{
		logger:    slogger.Discard(),
		rootLabel: "value",
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// ParseValue runs one interactive session over node and returns the
// collected value in generic form: map[string]any for structs, []any for
// sequences, scalars for leaves, and {variant: payload} or a bare variant
// name for enums. It returns ErrAborted when the user cancels or backtracks
// past the root.
func ParseValue(ctx context.Context, dialog Dialog, node *schema.Node, opts ...Option) (any, error) {
	if dialog == nil {
		return nil, fmt.Errorf("intake: dialog is nil")
	}
	if err := node.Validate(); err != nil {
		return nil, err
	}
	options := applyOptions(opts)
	s := newSession(dialog, options)

	v, back, err := s.walk(ctx, node, options.rootLabel, "")
	if err != nil {
		return nil, err
	}
	if back {
		// The user backed out of the first prompt; with nothing left to
		// rewind, the session ends the same way a cancel does.
		s.logger.Debug("backtracked past the root")
		return nil, ErrAborted
	}
	return v, nil
}

// ParseInto derives a schema from target (which must be a non-nil pointer),
// runs an interactive session over it, and stores the collected value in
// *target. See the schema package for the struct tags Generate understands.
func ParseInto(ctx context.Context, dialog Dialog, target any, opts ...Option) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("intake: target must be a non-nil pointer, got %T", target)
	}

	node, err := schema.Generate(target)
	if err != nil {
		return err
	}

	opts = append([]Option{WithRootLabel(rootLabelFor(rv.Type().Elem()))}, opts...)
	v, err := ParseValue(ctx, dialog, node, opts...)
	if err != nil {
		return err
	}

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("intake: encode collected value: %w", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("intake: collected value does not fit %T: %w", target, err)
	}
	return nil
}

func rootLabelFor(t reflect.Type) string {
	if name := t.Name(); name != "" {
		return strings.ToLower(name)
	}
	return "value"
}
