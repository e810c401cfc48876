package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	mapwindow "github.com/Geoany/MapWindow5"
	"github.com/Geoany/MapWindow5/registry"
)

// NewToolsCmd creates the "tools" subcommand.
func NewToolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List registered geoprocessing tools",
		RunE:  runTools,
	}

	cmd.Flags().Bool("params", false, "Show each tool's parameter table")

	return cmd
}

func runTools(cmd *cobra.Command, args []string) error {
	showParams, _ := cmd.Flags().GetBool("params")
	out := cmd.OutOrStdout()

	defs := registry.Global().All()
	if len(defs) == 0 {
		fmt.Fprintln(out, "No tools registered.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tCATEGORY\tDESCRIPTION")
	for _, def := range defs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", def.Type, def.Category, def.Description)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !showParams {
		return nil
	}

	for _, def := range defs {
		tool, ok := registry.Global().New(def.Type)
		if !ok {
			continue
		}
		fmt.Fprintf(out, "\n%s:\n", def.Type)
		params, _ := mapwindow.BuildParameters(tool.Parameters())
		for _, p := range params {
			line := fmt.Sprintf("  %-12s %-14s %s", p.Name(), p.Kind, p.DisplayName())
			if p.Required() {
				line += " (required)"
			}
			if p.HasRange() {
				switch p.Kind {
				case mapwindow.ParameterKindInt:
					line += fmt.Sprintf(" [%d..%d]", p.IntMin, p.IntMax)
				case mapwindow.ParameterKindFloat:
					line += fmt.Sprintf(" [%v..%v]", p.FloatMin, p.FloatMax)
				}
			}
			fmt.Fprintln(out, line)
		}
	}
	return nil
}
