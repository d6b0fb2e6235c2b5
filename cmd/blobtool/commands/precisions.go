package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/born-ml/blob/internal/blob"
	"github.com/spf13/cobra"
)

func newPrecisionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "precisions",
		Short: "List supported element precisions and their byte widths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PRECISION\tBYTES\tFLOAT\tSIGNED")
			for _, p := range blob.Precisions() {
				fmt.Fprintf(w, "%s\t%d\t%t\t%t\n", p, p.Size(), p.IsFloat(), p.IsSigned())
			}
			return w.Flush()
		},
	}
}
