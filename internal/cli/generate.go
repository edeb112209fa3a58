package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/uiforge/internal/codegen"
	"github.com/danieljhkim/uiforge/internal/engine"
	"github.com/danieljhkim/uiforge/internal/hash"
	"github.com/danieljhkim/uiforge/internal/outline"
	"github.com/danieljhkim/uiforge/internal/planner"
	"github.com/danieljhkim/uiforge/internal/stores"
	"github.com/danieljhkim/uiforge/internal/tree"
)

var (
	generateShowCode bool
	previewShowCode  bool
)

// generateOutput is the JSON shape of generate and preview.
type generateOutput struct {
	Version     *stores.Version `json:"version,omitempty"`
	Plan        *planner.Plan   `json:"plan"`
	Tree        *tree.Node      `json:"tree"`
	Explanation string          `json:"explanation"`
	Fingerprint string          `json:"fingerprint"`
	BaseID      *int64          `json:"baseId,omitempty"`
	Unchanged   bool            `json:"unchanged"`
}

var generateCmd = &cobra.Command{
	Use:   "generate <request>...",
	Short: "Build or edit the UI from a request and record a version",
	Long: `Run a plain-language request through the pipeline and record the result.

Without history, or when the request contains no edit keyword (add, change,
remove, make, ...), a new tree is built. Otherwise the current tree is edited.`,
	Example: `  uiforge generate "Create a dashboard with a navbar and sidebar"
  uiforge generate add a table with user data`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.engine.Generate(cmd.Context(), &engine.GenerateRequest{
			UserText: strings.Join(args, " "),
		})
		if err != nil {
			return err
		}
		return printGenerate(result, generateShowCode)
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview <request>...",
	Short: "Show what a request would produce without recording it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.engine.Preview(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		return printGenerate(result, previewShowCode)
	},
}

func printGenerate(result *engine.GenerateResult, showCode bool) error {
	if jsonOutput {
		o := generateOutput{
			Version:     result.Version,
			Plan:        result.Plan,
			Tree:        result.Tree,
			Explanation: result.Explanation,
			Fingerprint: result.Fingerprint,
			Unchanged:   result.Unchanged,
		}
		if result.Base != nil {
			id := result.Base.ID
			o.BaseID = &id
		}
		return outputJSON(o)
	}

	if result.Version != nil {
		PrintSuccess(fmt.Sprintf("Recorded version %d", result.Version.ID))
	} else {
		PrintSection("Preview")
	}
	PrintLabelValue("Plan", describePlan(result.Plan))
	PrintLabelValue("Explanation", result.Explanation)
	PrintLabelValue("Fingerprint", hash.Short(result.Fingerprint))
	if result.Unchanged {
		PrintWarning(fmt.Sprintf("The tree is unchanged from version %d", result.Base.ID))
	}

	PrintInfo("")
	if showCode {
		PrintInfo(codegen.Serialize(result.Tree))
	} else {
		PrintInfo(outline.Render(result.Tree, !noColor()))
	}
	return nil
}

// describePlan summarizes a plan in one line.
func describePlan(p *planner.Plan) string {
	switch p.Type {
	case planner.PlanNew:
		layout := planner.LayoutDefault
		if p.Layout != nil {
			layout = p.Layout.Type
		}
		return fmt.Sprintf("new, %s layout, %s", layout,
			PrintCount(len(p.Components), "component", "components"))
	case planner.PlanPatch:
		if len(p.Actions) == 0 {
			return "patch, no actions"
		}
		parts := make([]string, 0, len(p.Actions))
		for _, a := range p.Actions {
			if a.Type == planner.ActionAdd && a.Component != nil {
				parts = append(parts, "add "+string(a.Component.Kind))
				continue
			}
			parts = append(parts, string(a.Type))
		}
		return "patch, " + strings.Join(parts, ", ")
	default:
		return string(p.Type)
	}
}

func init() {
	generateCmd.Flags().BoolVar(&generateShowCode, "code", false, "Print the markup instead of an outline")
	previewCmd.Flags().BoolVar(&previewShowCode, "code", false, "Print the markup instead of an outline")
}
