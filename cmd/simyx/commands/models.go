package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/SIMYX/domains"
)

// ModelsCmd lists the simulation models compiled into this binary
var ModelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the built-in simulation models",
	Long:  "List every model compiled into this binary, with its version and description.",
	Run: func(cmd *cobra.Command, args []string) {
		names := domains.List()
		if len(names) == 0 {
			pterm.Info.Println("No models registered")
			return
		}

		for _, name := range names {
			d, ok := domains.Get(name)
			if !ok {
				continue
			}
			meta := d.Metadata()
			pterm.Printf("%s %s\n    %s\n",
				pterm.LightCyan(meta.Name),
				pterm.Gray("v"+meta.Version),
				meta.Description)
		}
	},
}
