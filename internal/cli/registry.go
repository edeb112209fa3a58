package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/uiforge/internal/planner"
	"github.com/danieljhkim/uiforge/internal/registry"
)

// kindInfo is the JSON shape of one registry entry.
type kindInfo struct {
	Name     string   `json:"name"`
	Triggers []string `json:"triggers"`
}

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "List the registered component kinds and the words that request them",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		triggers := planner.ComponentTriggers()

		kinds := registry.All()
		infos := make([]kindInfo, 0, len(kinds))
		for _, k := range kinds {
			t := triggers[k]
			if t == nil {
				t = []string{}
			}
			infos = append(infos, kindInfo{Name: string(k), Triggers: t})
		}

		if jsonOutput {
			return outputJSON(infos)
		}

		rows := make([][]string, 0, len(infos))
		for _, info := range infos {
			rows = append(rows, []string{info.Name, strings.Join(info.Triggers, ", ")})
		}
		PrintSection("Components")
		PrintTable([]string{"KIND", "TRIGGERS"}, rows)
		return nil
	},
}
