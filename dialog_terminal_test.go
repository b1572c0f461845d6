package intake

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func terminalDialog(input string) (*TerminalDialog, *bytes.Buffer) {
	var out bytes.Buffer
	d := NewTerminalDialogWithOptions(TerminalDialogOptions{
		In:  strings.NewReader(input),
		Out: &out,
	})
	return d, &out
}

func TestTerminalDialog_Input(t *testing.T) {
	d, out := terminalDialog("hello\n")
	res, err := d.Show(context.Background(), &DialogInput{Prompt: "name", Hint: "string"})
	require.NoError(t, err)
	require.Equal(t, "hello", res.Text)
	require.Contains(t, out.String(), "name")
	require.Contains(t, out.String(), "(string)")
}

func TestTerminalDialog_InputDefault(t *testing.T) {
	d, _ := terminalDialog("\n")
	res, err := d.Show(context.Background(), &DialogInput{Prompt: "name", Default: "fallback"})
	require.NoError(t, err)
	require.Equal(t, "fallback", res.Text)
}

func TestTerminalDialog_InputValidateRetries(t *testing.T) {
	d, out := terminalDialog("abc\n42\n")
	res, err := d.Show(context.Background(), &DialogInput{
		Prompt: "count",
		Validate: func(s string) error {
			if s == "abc" {
				return fmt.Errorf("not a number")
			}
			return nil
		},
	})
	require.NoError(t, err)
	require.Equal(t, "42", res.Text)
	require.Contains(t, out.String(), "invalid: not a number")
}

func TestTerminalDialog_Backtrack(t *testing.T) {
	d, _ := terminalDialog("<\n")
	res, err := d.Show(context.Background(), &DialogInput{Prompt: "name"})
	require.NoError(t, err)
	require.True(t, res.Backtrack)
	require.False(t, res.Canceled)
}

func TestTerminalDialog_EscapedBacktrackToken(t *testing.T) {
	d, _ := terminalDialog("\\<\n")
	res, err := d.Show(context.Background(), &DialogInput{Prompt: "name"})
	require.NoError(t, err)
	require.Equal(t, "<", res.Text)
}

func TestTerminalDialog_EOFCancels(t *testing.T) {
	d, _ := terminalDialog("")
	res, err := d.Show(context.Background(), &DialogInput{Prompt: "name"})
	require.NoError(t, err)
	require.True(t, res.Canceled)
}

func TestTerminalDialog_FinalLineWithoutNewline(t *testing.T) {
	d, _ := terminalDialog("hello")
	res, err := d.Show(context.Background(), &DialogInput{Prompt: "name"})
	require.NoError(t, err)
	require.Equal(t, "hello", res.Text)
}

func TestTerminalDialog_Confirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		def   string
		want  bool
	}{
		{"yes", "y\n", "", true},
		{"yes word", "yes\n", "", true},
		{"no", "n\n", "", false},
		{"upper", "Y\n", "", true},
		{"default true", "\n", "true", true},
		{"default false", "\n", "false", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := terminalDialog(tt.input)
			res, err := d.Show(context.Background(), &DialogInput{Prompt: "sure", Confirm: true, Default: tt.def})
			require.NoError(t, err)
			require.Equal(t, tt.want, res.Confirmed)
		})
	}
}

func TestTerminalDialog_ConfirmRepromptsOnJunk(t *testing.T) {
	d, out := terminalDialog("maybe\ny\n")
	res, err := d.Show(context.Background(), &DialogInput{Prompt: "sure", Confirm: true})
	require.NoError(t, err)
	require.True(t, res.Confirmed)
	require.Contains(t, out.String(), "answer y or n")
}

func TestTerminalDialog_ConfirmBacktrack(t *testing.T) {
	d, _ := terminalDialog("<\n")
	res, err := d.Show(context.Background(), &DialogInput{Prompt: "sure", Confirm: true})
	require.NoError(t, err)
	require.True(t, res.Backtrack)
}

func TestTerminalDialog_Select(t *testing.T) {
	options := []DialogOption{
		{Value: "commit", Label: "Commit", Description: "Record changes"},
		{Value: "clone", Label: "Clone"},
	}

	t.Run("valid choice", func(t *testing.T) {
		d, out := terminalDialog("2\n")
		res, err := d.Show(context.Background(), &DialogInput{Prompt: "subcommand", Options: options})
		require.NoError(t, err)
		require.Equal(t, 1, res.Index)
		require.Contains(t, out.String(), "1. Commit")
		require.Contains(t, out.String(), "Record changes")
		require.Contains(t, out.String(), "2. Clone")
	})

	t.Run("junk then valid re-prompts", func(t *testing.T) {
		d, out := terminalDialog("9\nx\n1\n")
		res, err := d.Show(context.Background(), &DialogInput{Prompt: "subcommand", Options: options})
		require.NoError(t, err)
		require.Equal(t, 0, res.Index)
		require.Contains(t, out.String(), "enter a number between 1 and 2")
	})

	t.Run("empty line picks the default", func(t *testing.T) {
		d, _ := terminalDialog("\n")
		res, err := d.Show(context.Background(), &DialogInput{Prompt: "subcommand", Options: options, Default: "clone"})
		require.NoError(t, err)
		require.Equal(t, 1, res.Index)
	})

	t.Run("backtrack", func(t *testing.T) {
		d, _ := terminalDialog("<\n")
		res, err := d.Show(context.Background(), &DialogInput{Prompt: "subcommand", Options: options})
		require.NoError(t, err)
		require.True(t, res.Backtrack)
	})
}

func TestTerminalDialog_MultiSelect(t *testing.T) {
	options := []DialogOption{
		{Value: "a", Label: "A"},
		{Value: "b", Label: "B"},
		{Value: "c", Label: "C"},
	}

	t.Run("picks several, deduplicated", func(t *testing.T) {
		d, _ := terminalDialog("1, 3, 1\n")
		res, err := d.Show(context.Background(), &DialogInput{Prompt: "pick", Options: options, MultiSelect: true})
		require.NoError(t, err)
		require.Equal(t, []string{"a", "c"}, res.Values)
	})

	t.Run("empty line picks nothing", func(t *testing.T) {
		d, _ := terminalDialog("\n")
		res, err := d.Show(context.Background(), &DialogInput{Prompt: "pick", Options: options, MultiSelect: true})
		require.NoError(t, err)
		require.Empty(t, res.Values)
	})

	t.Run("out of range re-prompts", func(t *testing.T) {
		d, out := terminalDialog("1,9\n2\n")
		res, err := d.Show(context.Background(), &DialogInput{Prompt: "pick", Options: options, MultiSelect: true})
		require.NoError(t, err)
		require.Equal(t, []string{"b"}, res.Values)
		require.Contains(t, out.String(), "separated by commas")
	})
}

func TestTerminalDialog_HintTruncation(t *testing.T) {
	long := strings.Repeat("x", 200)
	d, out := terminalDialog("ok\n")
	_, err := d.Show(context.Background(), &DialogInput{Prompt: "name", Hint: long})
	require.NoError(t, err)
	require.Contains(t, out.String(), "...")
	require.NotContains(t, out.String(), long)
}

// End-to-end: a full session over the terminal dialog, including a
// backtrack that rewinds the subcommand choice.
func TestTerminalDialog_FullSession(t *testing.T) {
	input := strings.Join([]string{
		"1", // subcommand = Commit
		"<", // back out of "provide message?" to the subcommand choice
		"2", // subcommand = Clone
		"y", // add an address
		"git://x",
		"n",   // stop adding
		"run", // arg
	}, "\n") + "\n"

	d, _ := terminalDialog(input)
	v, err := ParseValue(context.Background(), d, gitSchema())
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"subcommand": map[string]any{
			"Clone": map[string]any{
				"address": []any{"git://x"},
			},
		},
		"arg": "run",
	}, v)
}
