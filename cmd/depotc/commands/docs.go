package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/depot-tools/depotc/pkg/docs"
)

func newDocsCmd() *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show built-in documentation topics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Available topics:")
				for _, topic := range docs.Topics() {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", topic)
				}
				return nil
			}

			rendered, err := docs.Render(args[0], width)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 80, "Wrap rendered documentation at this width (0 disables wrapping)")
	return cmd
}
