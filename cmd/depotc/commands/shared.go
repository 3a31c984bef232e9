package commands

import (
	"github.com/spf13/cobra"

	"github.com/depot-tools/depotc/pkg/config"
	"github.com/depot-tools/depotc/pkg/depot"
	"github.com/depot-tools/depotc/pkg/errors"
	"github.com/depot-tools/depotc/pkg/filesystem"
	"github.com/depot-tools/depotc/pkg/output"
)

func newSharedCmd() *cobra.Command {
	var refs []string

	cmd := &cobra.Command{
		Use:   "shared [depot...]",
		Short: "Show resources duplicated across depots",
		Long: `Compute which resource paths exist in more than one depot. With --refs,
the given depots are compared against the reference depots instead of
against each other. With no arguments, the configured search list is
compared against itself.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(formatFlag)
			if err != nil {
				return err
			}

			subjects := args
			if len(subjects) == 0 {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				subjects = cfg.Depots
			}
			if len(subjects) == 0 {
				return errors.New(errors.ErrInvalidInput, "no depots given and no depot search list configured")
			}

			resources, err := depot.SharedResources(filesystem.NewOS(), subjects, refs)
			if err != nil {
				return err
			}
			return output.NewRenderer(cmd.OutOrStdout(), format).Resources("", resources)
		},
	}

	cmd.Flags().StringSliceVar(&refs, "refs", nil, "Reference depots to compare against (default: the subject depots)")
	return cmd
}
