package commands

import (
	"github.com/spf13/cobra"

	"github.com/depot-tools/depotc/pkg/config"
	"github.com/depot-tools/depotc/pkg/depot"
	"github.com/depot-tools/depotc/pkg/errors"
	"github.com/depot-tools/depotc/pkg/filesystem"
	"github.com/depot-tools/depotc/pkg/output"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [depot]",
		Short: "List the resources installed in a depot",
		Long: `List the package and artifact directories installed under a depot root,
as depot-relative paths. With no argument, the first depot of the
configured search list (DEPOT_PATH or the config file) is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(formatFlag)
			if err != nil {
				return err
			}

			var depotPath string
			if len(args) == 1 {
				depotPath = args[0]
			} else {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				if len(cfg.Depots) == 0 {
					return errors.New(errors.ErrInvalidInput, "no depot given and no depot search list configured")
				}
				depotPath = cfg.Depots[0]
			}

			resources, err := depot.Resources(filesystem.NewOS(), depotPath)
			if err != nil {
				return err
			}
			return output.NewRenderer(cmd.OutOrStdout(), format).Resources(depotPath, resources)
		},
	}
}
