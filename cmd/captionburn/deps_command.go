package main

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"captionburn/internal/deps"
	"captionburn/internal/preflight"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Report whether ffmpeg and ffprobe are available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := deps.CheckBinaries(deps.Requirements(cfg.FFmpegBinary(), cfg.FFprobeBinary(), cfg.FFmpeg.ProbeSource))
			missing := deps.MissingRequired(statuses)

			r := newReport(cmd)
			if jsonOutput {
				if err := r.json(statuses); err != nil {
					return err
				}
			} else {
				r.table(dependencyTable(statuses))
				label, o, message := dependencyVerdict(statuses, missing)
				r.line(label, o, message)
			}

			if len(missing) > 0 {
				return fmt.Errorf("%w: %s", preflight.ErrDependencyMissing, strings.Join(deps.Names(missing), ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func dependencyTable(statuses []deps.Status) ([]string, [][]string) {
	rows := lo.Map(statuses, func(status deps.Status, _ int) []string {
		return []string{status.Name, status.Command, dependencyState(status), status.Description}
	})
	return []string{"Dependency", "Command", "Status", "Purpose"}, rows
}

func dependencyState(status deps.Status) string {
	switch {
	case status.Available:
		return "available"
	case status.Optional:
		return "missing (optional)"
	default:
		return "missing"
	}
}

// dependencyVerdict summarises statuses as one report line: failed when a
// required binary is missing, a warning when only ffprobe is.
func dependencyVerdict(statuses, missing []deps.Status) (string, outcome, string) {
	if len(missing) > 0 {
		return "Dependencies", outcomeFailed, "missing " + strings.Join(deps.Names(missing), ", ")
	}
	if absent, found := lo.Find(statuses, func(s deps.Status) bool { return !s.Available }); found {
		return "Dependencies", outcomeWarn, fmt.Sprintf("ready; %s unavailable (%s)", absent.Name, absent.Detail)
	}
	return "Dependencies", outcomeOK, "ready"
}
