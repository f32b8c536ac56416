// Package plan decodes flight plans: declarative lists of flight
// configurations (activation, name template, motor loads) applied to a
// built-in design. Plans are written in TOML or HCL.
package plan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/signalsfoundry/rocketcfg/core"
	"github.com/signalsfoundry/rocketcfg/internal/logging"
	"github.com/signalsfoundry/rocketcfg/kb"
	"github.com/signalsfoundry/rocketcfg/model"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported plan format")
	ErrUnknownMount      = errors.New("unknown motor mount")
	ErrUnknownMotor      = errors.New("unknown motor")
)

// Plan is the decoded form of a plan file.
type Plan struct {
	Design                string          `toml:"design" hcl:"design,optional"`
	ReferenceType         string          `toml:"reference_type" hcl:"reference_type,optional"`
	CustomReferenceLength float64         `toml:"custom_reference_length" hcl:"custom_reference_length,optional"`
	Configurations        []Configuration `toml:"configuration" hcl:"configuration,block"`
}

// Configuration describes one flight configuration to create.
type Configuration struct {
	ID string `toml:"id" hcl:"id,label"`
	// CopyOf names an existing configuration to copy, motors included.
	CopyOf string `toml:"copy_of" hcl:"copy_of,optional"`
	Name   string `toml:"name" hcl:"name,optional"`
	// Stages lists the active stage numbers. Empty means every stage.
	Stages []int       `toml:"stages" hcl:"stages,optional"`
	Select bool        `toml:"select" hcl:"select,optional"`
	Motors []MotorLoad `toml:"motor" hcl:"motor,block"`
}

// MotorLoad puts a catalog motor into the named mount.
type MotorLoad struct {
	Mount         string  `toml:"mount" hcl:"mount,label"`
	Designation   string  `toml:"designation" hcl:"designation"`
	Delay         float64 `toml:"delay" hcl:"delay,optional"`
	Plugged       bool    `toml:"plugged" hcl:"plugged,optional"`
	Ignition      string  `toml:"ignition" hcl:"ignition,optional"`
	IgnitionDelay float64 `toml:"ignition_delay" hcl:"ignition_delay,optional"`
}

// Load reads and decodes the plan at path. The extension selects the
// format: .toml or .hcl.
func Load(path string) (Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Plan{}, fmt.Errorf("reading plan: %w", err)
	}
	return Decode(data, path)
}

// Decode decodes data, using filename's extension to pick the format.
func Decode(data []byte, filename string) (Plan, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		return decodeTOML(data)
	case ".hcl":
		return decodeHCL(data, filename)
	default:
		return Plan{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

func decodeTOML(data []byte) (Plan, error) {
	var p Plan
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Plan{}, fmt.Errorf("parsing plan: %w", err)
	}
	return p, nil
}

func decodeHCL(data []byte, filename string) (Plan, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return Plan{}, fmt.Errorf("parsing plan %s: %w", filename, diags)
	}
	var p Plan
	if diags := gohcl.DecodeBody(file.Body, nil, &p); diags.HasErrors() {
		return Plan{}, fmt.Errorf("decoding plan %s: %w", filename, diags)
	}
	return p, nil
}

// Apply creates the plan's configurations on r, loading motors from cat.
// It stops at the first failing configuration; configurations created before
// it stay registered.
func (p Plan) Apply(ctx context.Context, r *core.Rocket, cat *kb.MotorCatalog) ([]*core.FlightConfiguration, error) {
	log := logging.FromContext(ctx)

	if p.ReferenceType != "" {
		rt, err := core.ParseReferenceType(p.ReferenceType)
		if err != nil {
			return nil, err
		}
		if p.CustomReferenceLength > 0 {
			if err := r.SetCustomReferenceLength(p.CustomReferenceLength); err != nil {
				return nil, err
			}
		}
		if err := r.SetReferenceType(rt); err != nil {
			return nil, err
		}
	}

	var out []*core.FlightConfiguration
	for _, c := range p.Configurations {
		fc, err := c.apply(r, cat)
		if err != nil {
			return out, fmt.Errorf("configuration %q: %w", c.ID, err)
		}
		log.Debug(ctx, "plan configuration applied",
			logging.String("config_id", string(fc.ID())),
			logging.Int("motors", len(c.Motors)),
		)
		out = append(out, fc)
	}
	return out, nil
}

func (c Configuration) apply(r *core.Rocket, cat *kb.MotorCatalog) (*core.FlightConfiguration, error) {
	id := core.FlightConfigurationID(c.ID)
	var (
		fc  *core.FlightConfiguration
		err error
	)
	if c.CopyOf != "" {
		fc, err = r.CopyFlightConfiguration(core.FlightConfigurationID(c.CopyOf), id)
	} else {
		fc, err = r.CreateFlightConfiguration(id)
	}
	if err != nil {
		return nil, err
	}

	if c.Name != "" {
		fc.SetName(c.Name)
	}
	if len(c.Stages) > 0 {
		fc.ClearAllStages()
		for _, n := range c.Stages {
			if err := fc.SetStageActiveOnly(n, true); err != nil {
				return nil, err
			}
		}
	}

	for _, load := range c.Motors {
		if err := load.apply(r, cat, fc.ID()); err != nil {
			return nil, err
		}
	}

	if c.Select {
		if err := r.SetSelectedConfiguration(fc.ID()); err != nil {
			return nil, err
		}
	}
	return fc, nil
}

func (l MotorLoad) apply(r *core.Rocket, cat *kb.MotorCatalog, id core.FlightConfigurationID) error {
	mount := r.FindComponent(l.Mount)
	if mount == nil {
		return fmt.Errorf("%w: %q", ErrUnknownMount, l.Mount)
	}
	motor, ok := cat.Motor(l.Designation)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMotor, l.Designation)
	}
	ignition, err := model.ParseIgnitionEvent(l.Ignition)
	if err != nil {
		return err
	}
	delay := l.Delay
	if l.Plugged {
		delay = model.DelayPlugged
	}
	return mount.SetMotorConfig(id, model.MotorConfig{
		Motor:         motor,
		EjectionDelay: delay,
		IgnitionEvent: ignition,
		IgnitionDelay: l.IgnitionDelay,
	})
}
