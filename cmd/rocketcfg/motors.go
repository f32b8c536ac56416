package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/signalsfoundry/rocketcfg/internal/logging"
	"github.com/signalsfoundry/rocketcfg/internal/report"
	"github.com/signalsfoundry/rocketcfg/kb"
	"github.com/signalsfoundry/rocketcfg/model"
)

func (a *app) motorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "motors",
		Short: "List the motor catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			manufacturer, _ := cmd.Flags().GetString("manufacturer")
			return report.Write(cmd.OutOrStdout(), a.cfg.Output, report.ListCatalog(a.catalog, manufacturer))
		},
	}
	cmd.Flags().StringP("manufacturer", "m", "", "only list motors of this manufacturer (name or abbreviation)")
	return cmd
}

// motorFile is the TOML layout of a motors file: one [[motor]] table per
// entry. JSON files hold a plain array.
type motorFile struct {
	Motors []model.Motor `toml:"motor"`
}

// loadMotors adds the motors in path to cat. Problems are logged and the
// offending entries skipped; it returns the designations added.
func loadMotors(ctx context.Context, log logging.Logger, cat *kb.MotorCatalog, path string) []string {
	if path == "" || cat == nil {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn(ctx, "skipping motor load", logging.String("path", path), logging.Err(err))
		return nil
	}

	var motors []model.Motor
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var f motorFile
		err = toml.Unmarshal(data, &f)
		motors = f.Motors
	} else {
		err = json.Unmarshal(data, &motors)
	}
	if err != nil {
		log.Warn(ctx, "failed to parse motors", logging.String("path", path), logging.Err(err))
		return nil
	}

	var added []string
	for _, m := range motors {
		if err := cat.AddMotor(m); err != nil {
			log.Warn(ctx, "skipping motor", logging.String("designation", m.Designation), logging.Err(err))
			continue
		}
		added = append(added, m.Designation)
	}

	log.Info(ctx, "loaded motors",
		logging.String("path", path),
		logging.Int("count", len(added)),
	)
	return added
}

// reloadMotors removes the motors a previous load of path added, then loads
// the file again.
func reloadMotors(ctx context.Context, log logging.Logger, cat *kb.MotorCatalog, path string, previous []string) []string {
	for _, designation := range previous {
		if err := cat.RemoveMotor(designation); err != nil {
			log.Warn(ctx, "motor already removed", logging.String("designation", designation), logging.Err(err))
		}
	}
	return loadMotors(ctx, log, cat, path)
}
