package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#DC3545")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#198754"))
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#0D6EFD"))
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "intake",
	Short: "Collect structured values through interactive prompts",
	Long: `intake walks a schema document and asks one question per value,
assembling the answers into structured output.

At any prompt, type "<" to undo the previous answer and re-give it, or
press Ctrl-D to abort the session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI. Errors are printed here so main stays a one-liner.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); empty disables logging")
}
