package cli

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

// jsonOutput reports whether cmd should print JSON: when asked to, or when
// the output is not a terminal.
func jsonOutput(cmd *cobra.Command, app *App) bool {
	asked, _ := cmd.Flags().GetBool(flagJSON)
	return asked || !app.interactive()
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// emit prints v as JSON or the styled rendering, depending on the output mode.
func emit(cmd *cobra.Command, app *App, v any, styled func() string) error {
	if jsonOutput(cmd, app) {
		return writeJSON(cmd.OutOrStdout(), v)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), styled())
	return err
}
