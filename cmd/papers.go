package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/photo-grid/internal/layout"
)

var papersCmd = &cobra.Command{
	Use:   "papers",
	Short: "List the available paper formats",
	RunE: func(cmd *cobra.Command, args []string) error {
		papers := layout.PaperSizes()
		if mustGetBool(cmd, "json") {
			return outputJSON(papers)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "INDEX\tNAME\tSIZE")
		for i, p := range papers {
			fmt.Fprintf(w, "%d\t%s\t%g x %g cm\n", i, p.Name, p.WidthCM, p.HeightCM)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(papersCmd)
	papersCmd.Flags().Bool("json", false, "Output as JSON")
}
