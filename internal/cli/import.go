package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/uiforge/internal/engine"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Record a tree from a JSON document as a new version",
	Long: `Read a component tree in the JSON wire form and record it as the newest version.

The document has the shape {"component": "Card", "props": {...}, "children": [...]}.
Every component must be registered. Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data   []byte
			err    error
			source = args[0]
		)
		if source == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
			source = "stdin"
		} else {
			data, err = os.ReadFile(source)
			source = filepath.Base(source)
		}
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		a, err := newApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		v, err := a.engine.Import(cmd.Context(), &engine.ImportRequest{Data: data, Source: source})
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(v)
		}
		PrintSuccess(fmt.Sprintf("Imported %s as version %d", source, v.ID))
		PrintLabelValue("Nodes", fmt.Sprintf("%d", v.Tree.Count()))
		return nil
	},
}
