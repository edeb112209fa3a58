package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/uiforge/internal/engine"
	"github.com/danieljhkim/uiforge/internal/hash"
	"github.com/danieljhkim/uiforge/internal/outline"
	"github.com/danieljhkim/uiforge/internal/stores"
	"github.com/danieljhkim/uiforge/internal/tree"
)

// Show formats
const (
	showOutline = "outline"
	showJSON    = "json"
	showYAML    = "yaml"
)

var showFormat string

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List recorded versions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		versions, err := a.engine.Versions(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput {
			if versions == nil {
				versions = []*stores.Version{}
			}
			return outputJSON(versions)
		}

		if len(versions) == 0 {
			PrintEmptyState("No versions yet. Run 'uiforge generate <request>' to create one.")
			return nil
		}

		table := make([][]string, 0, len(versions))
		for _, v := range versions {
			request := v.UserText
			if v.RestoredFrom != nil {
				request = fmt.Sprintf("(restored from %d)", *v.RestoredFrom)
			} else if request == "" {
				request = "(" + v.Explanation + ")"
			}
			table = append(table, []string{
				strconv.FormatInt(v.ID, 10),
				v.Timestamp.Local().Format(time.DateTime),
				strconv.Itoa(v.Tree.Count()),
				hash.Short(v.Fingerprint),
				truncate(request, 48),
			})
		}
		PrintSection(fmt.Sprintf("Versions (%s)", PrintCount(len(table), "version", "versions")))
		PrintTable([]string{"ID", "TIME", "NODES", "FINGERPRINT", "REQUEST"}, table)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a version (default: the current one)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := showFormat
		if jsonOutput {
			format = showJSON
		}
		switch format {
		case showOutline, showJSON, showYAML:
		default:
			return fmt.Errorf("unknown format %q: want outline, json or yaml", format)
		}

		a, err := newApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		v, err := resolveVersion(cmd, a.engine, args)
		if err != nil {
			return err
		}

		switch format {
		case showJSON:
			return outputJSON(v)
		case showYAML:
			data, err := yaml.Marshal(newVersionDoc(v))
			if err != nil {
				return fmt.Errorf("failed to encode version: %w", err)
			}
			_, err = out.Write(data)
			return err
		}

		PrintSection(fmt.Sprintf("Version %d", v.ID))
		PrintLabelValue("Recorded", v.Timestamp.Local().Format(time.RFC1123))
		if v.UserText != "" {
			PrintLabelValue("Request", v.UserText)
		}
		PrintLabelValue("Explanation", v.Explanation)
		PrintLabelValue("Fingerprint", v.Fingerprint)
		if v.RestoredFrom != nil {
			PrintLabelValue("Restored from", strconv.FormatInt(*v.RestoredFrom, 10))
		}
		PrintInfo("")
		PrintInfo(outline.Render(v.Tree, !noColor()))
		return nil
	},
}

var codeCmd = &cobra.Command{
	Use:   "code [id]",
	Short: "Print the markup of a version (default: the current one)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &engine.CodeRequest{}
		if len(args) == 1 {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			req.ID = &id
		}

		a, err := newApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.engine.Code(cmd.Context(), req)
		if err != nil {
			return err
		}
		if jsonOutput {
			o := map[string]any{"code": result.Code}
			if result.Version != nil {
				o["id"] = result.Version.ID
			}
			return outputJSON(o)
		}
		PrintInfo(result.Code)
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Make an earlier version current by recording a copy of it",
	Long: `Record a copy of an earlier version as the newest version.

History is append-only: the versions after <id> are kept, and the next
request edits the restored tree.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		v, err := a.engine.Restore(cmd.Context(), &engine.RestoreRequest{ID: id})
		if err != nil {
			return err
		}
		if jsonOutput {
			return outputJSON(v)
		}
		PrintSuccess(fmt.Sprintf("Restored version %d as version %d", id, v.ID))
		return nil
	},
}

// resolveVersion returns the version named by args, or the current one.
func resolveVersion(cmd *cobra.Command, eng *engine.Engine, args []string) (*stores.Version, error) {
	if len(args) == 1 {
		id, err := parseID(args[0])
		if err != nil {
			return nil, err
		}
		return eng.Version(cmd.Context(), id)
	}
	v, err := eng.Current(cmd.Context())
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, stores.ErrEmptyHistory
	}
	return v, nil
}

// versionDoc is the YAML shape of a version.
type versionDoc struct {
	ID           int64      `yaml:"id"`
	Timestamp    string     `yaml:"timestamp"`
	UserText     string     `yaml:"userText,omitempty"`
	Explanation  string     `yaml:"explanation"`
	Fingerprint  string     `yaml:"fingerprint,omitempty"`
	RestoredFrom *int64     `yaml:"restoredFrom,omitempty"`
	Tree         *tree.Node `yaml:"tree"`
}

func newVersionDoc(v *stores.Version) versionDoc {
	return versionDoc{
		ID:           v.ID,
		Timestamp:    v.Timestamp.UTC().Format(time.RFC3339Nano),
		UserText:     v.UserText,
		Explanation:  v.Explanation,
		Fingerprint:  v.Fingerprint,
		RestoredFrom: v.RestoredFrom,
		Tree:         v.Tree,
	}
}

func init() {
	showCmd.Flags().StringVarP(&showFormat, "format", "f", showOutline, "Output format: outline, json or yaml")
}
