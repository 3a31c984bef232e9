package commands

import (
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/depot-tools/depotc/pkg/compact"
	"github.com/depot-tools/depotc/pkg/config"
	"github.com/depot-tools/depotc/pkg/errors"
	"github.com/depot-tools/depotc/pkg/filesystem"
	"github.com/depot-tools/depotc/pkg/output"
)

func newCompactCmd() *cobra.Command {
	var (
		refs        []string
		lockTimeout time.Duration
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "compact [dest] [source...]",
		Short: "Move duplicated resources into a shared depot",
		Long: `Relocate every resource shared among the source depots (and the
reference set) into the destination depot, deleting source copies the
destination already holds. With no arguments, the destination and
sources are derived from the configured depot search list.

Compactions of the same destination serialize on an advisory lock file
inside the destination depot root.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.ParseFormat(formatFlag)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			var dest string
			var sources []string
			switch {
			case len(args) >= 2:
				dest, sources = args[0], args[1:]
			case len(args) == 0:
				var ok bool
				dest, sources, ok = cfg.CompactionPlan()
				if !ok {
					return errors.New(errors.ErrInvalidInput, "no depots given and the configured search list is too short to compact")
				}
			default:
				return errors.New(errors.ErrInvalidInput, "compact needs a destination and at least one source depot")
			}

			if !cmd.Flags().Changed("lock-timeout") {
				lockTimeout = time.Duration(cfg.LockTimeout)
			}

			opts := []compact.Option{
				compact.WithLockTimeout(lockTimeout),
				compact.WithDryRun(dryRun),
			}
			if format == output.FormatText {
				opts = append(opts, compact.WithProgress(printProgress))
			}

			report, err := compact.New(filesystem.NewOS(), opts...).Compact(dest, sources, refs)
			if err != nil {
				return err
			}
			return output.NewRenderer(cmd.OutOrStdout(), format).Report(report)
		},
	}

	cmd.Flags().StringSliceVar(&refs, "refs", nil, "Reference depots for duplicate discovery (default: the source depots)")
	cmd.Flags().DurationVar(&lockTimeout, "lock-timeout", 0, "Give up on a contended destination lock after this long (0 waits forever)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report planned moves and deletes without changing any depot")

	return cmd
}

// printProgress emits one human-readable line per processed resource.
func printProgress(source, resource string, action compact.Action) {
	switch action {
	case compact.ActionMove:
		pterm.Success.Printfln("moved   %s (from %s)", resource, source)
	case compact.ActionDelete:
		pterm.Success.Printfln("deleted %s (from %s)", resource, source)
	case compact.ActionSkip:
		pterm.Debug.Printfln("skipped %s (gone from %s)", resource, source)
	}
}
