package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/intake"
	"github.com/deepnoodle-ai/intake/schema"
	"github.com/deepnoodle-ai/intake/slogger"
)

var (
	runFormat string
	runOutput string
)

var runCmd = &cobra.Command{
	Use:   "run <schema-file>",
	Short: "Run an interactive session over a schema document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		node, err := schema.LoadFile(args[0])
		if err != nil {
			return err
		}

		logger := slogger.Discard()
		if logLevel != "" {
			logger = slogger.New(os.Stderr, slogger.LevelFromString(logLevel))
		}

		value, err := intake.ParseValue(cmd.Context(), intake.NewTerminalDialog(), node,
			intake.WithLogger(logger),
			intake.WithRootLabel(rootLabelFromPath(args[0])),
		)
		if errors.Is(err, intake.ErrAborted) {
			return fmt.Errorf("session aborted")
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if runOutput != "" {
			f, err := os.Create(runOutput)
			if err != nil {
				return fmt.Errorf("create %s: %w", runOutput, err)
			}
			defer f.Close()
			out = f
		}
		if err := encodeValue(out, value, runFormat); err != nil {
			return err
		}
		if runOutput != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), successStyle.Render("wrote ")+pathStyle.Render(runOutput))
		}
		return nil
	},
}

func encodeValue(w io.Writer, value any, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	case "yaml":
		data, err := yaml.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown output format %q (want json or yaml)", format)
	}
}

// rootLabelFromPath names the root value after the schema file: prompts for
// git.yaml read "git.arg" rather than "value.arg".
func rootLabelFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func init() {
	runCmd.Flags().StringVarP(&runFormat, "format", "f", "json", "output format: json or yaml")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "write the collected value to a file instead of stdout")
	rootCmd.AddCommand(runCmd)
}
