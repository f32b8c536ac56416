package main

import (
	"context"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/signalsfoundry/rocketcfg/internal/logging"
	"github.com/signalsfoundry/rocketcfg/internal/plan"
	"github.com/signalsfoundry/rocketcfg/internal/report"
	"github.com/signalsfoundry/rocketcfg/kb"
)

func (a *app) planCmd() *cobra.Command {
	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Work with flight plans",
	}

	apply := &cobra.Command{
		Use:   "apply <file>",
		Short: "Apply a TOML or HCL flight plan to a design and describe the result",
		Long: `Apply builds the plan's design (or --design when the plan names none),
creates the configurations the plan lists, loads their motors and
describes the resulting rocket.

With --watch the plan is re-applied to a fresh build whenever the file
changes, until interrupted. A motors file (--motors) is watched too: its
motors are reloaded into the catalog and the plan re-applied.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			p, err := plan.Load(path)
			if err != nil {
				return err
			}
			if err := a.applyPlan(ctx, cmd.OutOrStdout(), p); err != nil {
				return err
			}

			if watch, _ := cmd.Flags().GetBool("watch"); !watch {
				return nil
			}
			return a.watchPlan(ctx, cmd.OutOrStdout(), path, p)
		},
	}
	apply.Flags().BoolP("watch", "w", false, "re-apply the plan whenever the file changes")

	planCmd.AddCommand(apply)
	return planCmd
}

func (a *app) applyPlan(ctx context.Context, w io.Writer, p plan.Plan) error {
	design := p.Design
	if design == "" {
		design = a.cfg.Design
	}
	r, err := a.buildRocket(ctx, design)
	if err != nil {
		return err
	}
	if _, err := p.Apply(ctx, r, a.catalog); err != nil {
		return err
	}
	return report.Write(w, a.cfg.Output, report.Describe(r))
}

// planWatcher re-applies a flight plan when the plan or the motors file
// changes.
type planWatcher struct {
	a        *app
	w        io.Writer
	planPath string
	current  plan.Plan

	// catalogChanged is set by the catalog subscription.
	catalogChanged bool
}

func (a *app) watchPlan(ctx context.Context, w io.Writer, path string, p plan.Plan) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	pw := &planWatcher{a: a, w: w, planPath: abs, current: p}
	unsubscribe := a.catalog.Subscribe(pw.catalogEvent(ctx))
	defer unsubscribe()

	files := []string{abs}
	if a.cfg.MotorsFile != "" {
		files = append(files, a.cfg.MotorsFile)
	}
	return plan.WatchFiles(ctx, files, func(changed string) {
		pw.handle(ctx, changed)
	})
}

func (pw *planWatcher) catalogEvent(ctx context.Context) func(kb.Event) {
	return func(e kb.Event) {
		pw.catalogChanged = true
		pw.a.log.Debug(ctx, "motor catalog changed",
			logging.String("designation", e.Motor.Designation),
			logging.Bool("removed", e.Type == kb.EventMotorRemoved),
		)
	}
}

// handle reacts to a settled change of path.
func (pw *planWatcher) handle(ctx context.Context, path string) {
	a := pw.a
	if path == pw.planPath {
		p, err := plan.Load(path)
		if err != nil {
			a.log.Warn(ctx, "flight plan rejected", logging.String("path", path), logging.Err(err))
			return
		}
		pw.current = p
	} else {
		pw.catalogChanged = false
		a.fileMotors = reloadMotors(ctx, a.log, a.catalog, path, a.fileMotors)
		if !pw.catalogChanged {
			return
		}
	}

	if err := a.applyPlan(ctx, pw.w, pw.current); err != nil {
		a.log.Warn(ctx, "flight plan rejected", logging.String("path", pw.planPath), logging.Err(err))
	}
}
