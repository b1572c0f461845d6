package cli

import (
	"fmt"
	"io"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/intake/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate <pattern>...",
	Short: "Check that schema documents are well-formed",
	Long: `Validate loads every schema file matching the given glob patterns and
reports shape errors. Patterns support doublestar globs, e.g.
'schemas/**/*.yaml'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return validatePatterns(cmd.OutOrStdout(), args)
	},
}

func validatePatterns(out io.Writer, patterns []string) error {
	var checked, failed int
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return fmt.Errorf("no files match %q", pattern)
		}
		for _, path := range matches {
			checked++
			if _, err := schema.LoadFile(path); err != nil {
				failed++
				fmt.Fprintf(out, "%s %s\n  %v\n", errorStyle.Render("FAIL"), pathStyle.Render(path), err)
				continue
			}
			fmt.Fprintf(out, "%s %s\n", successStyle.Render("ok"), pathStyle.Render(path))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d schema files failed validation", failed, checked)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
