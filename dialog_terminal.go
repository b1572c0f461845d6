package intake

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
)

// hintWidth is the widest a hint is rendered before it gets an ellipsis.
const hintWidth = 60

// backToken, typed alone on a line, backtracks one step. A leading backslash
// escapes it so a literal "<" can still be entered.
const backToken = "<"

// TerminalDialog implements Dialog over a line-oriented terminal. Answers
// are typed lines; "<" backtracks one step and end-of-input (Ctrl-D)
// cancels the session.
type TerminalDialog struct {
	in    *bufio.Reader
	out   io.Writer
	color bool
}

var _ Dialog = &TerminalDialog{}

// NewTerminalDialog creates a Dialog prompting on stdin/stdout.
func NewTerminalDialog() *TerminalDialog {
	return NewTerminalDialogWithOptions(TerminalDialogOptions{})
}

// TerminalDialogOptions configures a TerminalDialog.
type TerminalDialogOptions struct {
	In  io.Reader
	Out io.Writer
}

// NewTerminalDialogWithOptions creates a Dialog with custom input/output.
// Color is enabled only when output goes to a terminal.
func NewTerminalDialogWithOptions(opts TerminalDialogOptions) *TerminalDialog {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	useColor := false
	if f, ok := opts.Out.(*os.File); ok {
		useColor = isatty.IsTerminal(f.Fd())
	}
	return &TerminalDialog{
		in:    bufio.NewReader(opts.In),
		out:   opts.Out,
		color: useColor,
	}
}

func (d *TerminalDialog) Show(ctx context.Context, in *DialogInput) (*DialogOutput, error) {
	if err := ctx.Err(); err != nil {
		return &DialogOutput{Canceled: true}, nil
	}
	if in.Confirm {
		return d.showConfirm(in)
	}
	if len(in.Options) > 0 {
		if in.MultiSelect {
			return d.showMultiSelect(in)
		}
		return d.showSelect(in)
	}
	return d.showInput(in)
}

func (d *TerminalDialog) showConfirm(in *DialogInput) (*DialogOutput, error) {
	d.printHeader(in)

	hint := "y/n"
	switch in.Default {
	case "true":
		hint = "Y/n"
	case "false":
		hint = "y/N"
	}

	for {
		fmt.Fprintf(d.out, "%s [%s]: ", d.glyph(), hint)
		line, out, err := d.readAnswer()
		if out != nil || err != nil {
			return out, err
		}

		switch strings.ToLower(line) {
		case "":
			if in.Default != "" {
				return &DialogOutput{Confirmed: in.Default == "true"}, nil
			}
		case "y", "yes":
			return &DialogOutput{Confirmed: true}, nil
		case "n", "no":
			return &DialogOutput{Confirmed: false}, nil
		}
		fmt.Fprintln(d.out, d.faint("answer y or n"))
	}
}

func (d *TerminalDialog) showSelect(in *DialogInput) (*DialogOutput, error) {
	d.printHeader(in)
	d.printOptions(in.Options)

	for {
		fmt.Fprintf(d.out, "%s select [1-%d]: ", d.glyph(), len(in.Options))
		line, out, err := d.readAnswer()
		if out != nil || err != nil {
			return out, err
		}

		if line == "" && in.Default != "" {
			for i, opt := range in.Options {
				if opt.Value == in.Default {
					return &DialogOutput{Index: i}, nil
				}
			}
		}
		idx, convErr := strconv.Atoi(line)
		if convErr != nil || idx < 1 || idx > len(in.Options) {
			fmt.Fprintln(d.out, d.faint(fmt.Sprintf("enter a number between 1 and %d", len(in.Options))))
			continue
		}
		return &DialogOutput{Index: idx - 1}, nil
	}
}

func (d *TerminalDialog) showMultiSelect(in *DialogInput) (*DialogOutput, error) {
	d.printHeader(in)
	d.printOptions(in.Options)

	for {
		fmt.Fprintf(d.out, "%s select (comma-separated, e.g. 1,3): ", d.glyph())
		line, out, err := d.readAnswer()
		if out != nil || err != nil {
			return out, err
		}
		if line == "" {
			return &DialogOutput{Values: []string{}}, nil
		}

		var values []string
		seen := make(map[string]bool)
		valid := true
		for _, part := range strings.Split(line, ",") {
			idx, convErr := strconv.Atoi(strings.TrimSpace(part))
			if convErr != nil || idx < 1 || idx > len(in.Options) {
				valid = false
				break
			}
			value := in.Options[idx-1].Value
			if !seen[value] {
				seen[value] = true
				values = append(values, value)
			}
		}
		if !valid {
			fmt.Fprintln(d.out, d.faint(fmt.Sprintf("enter numbers between 1 and %d, separated by commas", len(in.Options))))
			continue
		}
		return &DialogOutput{Values: values}, nil
	}
}

func (d *TerminalDialog) showInput(in *DialogInput) (*DialogOutput, error) {
	d.printHeader(in)

	prompt := "> "
	if in.Default != "" {
		prompt = fmt.Sprintf("[%s] > ", in.Default)
	}
	for {
		fmt.Fprintf(d.out, "%s %s", d.glyph(), prompt)
		line, out, err := d.readAnswer()
		if out != nil || err != nil {
			return out, err
		}

		if line == "" && in.Default != "" {
			line = in.Default
		}
		if in.Validate != nil {
			if verr := in.Validate(line); verr != nil {
				fmt.Fprintln(d.out, d.faint(fmt.Sprintf("invalid: %v", verr)))
				continue
			}
		}
		return &DialogOutput{Text: line}, nil
	}
}

// readAnswer reads one line and maps the navigation tokens: a non-nil
// DialogOutput means backtrack or cancel was requested.
func (d *TerminalDialog) readAnswer() (string, *DialogOutput, error) {
	line, err := d.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil {
		if err != io.EOF {
			return "", nil, fmt.Errorf("read input: %w", err)
		}
		// A final line without a trailing newline is still an answer;
		// end-of-input on an empty line cancels the session.
		if line == "" {
			fmt.Fprintln(d.out)
			return "", &DialogOutput{Canceled: true}, nil
		}
	}
	if line == backToken {
		return "", &DialogOutput{Backtrack: true}, nil
	}
	line = strings.TrimPrefix(line, `\`)
	return line, nil, nil
}

func (d *TerminalDialog) printHeader(in *DialogInput) {
	fmt.Fprintln(d.out)
	line := in.Prompt
	if d.color {
		line = color.New(color.FgGreen, color.Bold).Sprint(in.Prompt)
	}
	if in.Hint != "" {
		line += " " + d.faint("("+runewidth.Truncate(in.Hint, hintWidth, "...")+")")
	}
	fmt.Fprintln(d.out, line)
}

func (d *TerminalDialog) printOptions(options []DialogOption) {
	width := 0
	for _, opt := range options {
		if w := runewidth.StringWidth(opt.Label); w > width {
			width = w
		}
	}
	for i, opt := range options {
		if opt.Description == "" {
			fmt.Fprintf(d.out, "  %d. %s\n", i+1, opt.Label)
			continue
		}
		label := runewidth.FillRight(opt.Label, width)
		desc := runewidth.Truncate(opt.Description, hintWidth, "...")
		fmt.Fprintf(d.out, "  %d. %s  %s\n", i+1, label, d.faint(desc))
	}
}

func (d *TerminalDialog) glyph() string {
	if d.color {
		return color.GreenString("?")
	}
	return "?"
}

func (d *TerminalDialog) faint(s string) string {
	if d.color {
		return color.New(color.Faint).Sprint(s)
	}
	return s
}
