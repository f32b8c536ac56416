// Package designs builds the reference vehicles used by tests and the CLI.
package designs

import (
	"errors"
	"fmt"
	"sort"

	"github.com/signalsfoundry/rocketcfg/core"
	"github.com/signalsfoundry/rocketcfg/kb"
	"github.com/signalsfoundry/rocketcfg/model"
)

var ErrUnknownDesign = errors.New("unknown design")

// Builder constructs one design. A nil catalog means DefaultCatalog.
type Builder func(cat *kb.MotorCatalog, opts ...core.RocketOption) (*core.Rocket, error)

var builders = map[string]Builder{
	"alpha-iii":     AlphaIII,
	"beta":          Beta,
	"falcon9-heavy": Falcon9Heavy,
}

// Names lists the known design names, sorted.
func Names() []string {
	out := make([]string, 0, len(builders))
	for name := range builders {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Build constructs the named design.
func Build(name string, cat *kb.MotorCatalog, opts ...core.RocketOption) (*core.Rocket, error) {
	b, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDesign, name)
	}
	return b(cat, opts...)
}

// assembler threads the first error through a sequence of tree edits.
type assembler struct {
	cat *kb.MotorCatalog
	err error
}

func newAssembler(cat *kb.MotorCatalog) *assembler {
	if cat == nil {
		cat = DefaultCatalog()
	}
	return &assembler{cat: cat}
}

func (a *assembler) add(parent *core.Component, children ...*core.Component) {
	for _, ch := range children {
		if a.err != nil {
			return
		}
		if err := parent.AddChild(ch); err != nil {
			a.err = fmt.Errorf("attach %s to %s: %w", ch, parent, err)
		}
	}
}

func (a *assembler) do(err error) {
	if a.err == nil && err != nil {
		a.err = err
	}
}

func (a *assembler) place(c *core.Component, method core.AxialMethod, offset float64) {
	a.do(c.SetAxialMethod(method))
	c.SetAxialOffset(offset)
}

func (a *assembler) load(mount *core.Component, id core.FlightConfigurationID, designation string, delay float64) {
	if a.err != nil {
		return
	}
	m, ok := a.cat.Motor(designation)
	if !ok {
		a.err = fmt.Errorf("motor %q not in catalog", designation)
		return
	}
	a.do(mount.SetMotorConfig(id, model.MotorConfig{Motor: m, EjectionDelay: delay}))
}

func (a *assembler) config(r *core.Rocket) core.FlightConfigurationID {
	if a.err != nil {
		return ""
	}
	fc, err := r.CreateFlightConfiguration("")
	if err != nil {
		a.err = err
		return ""
	}
	return fc.ID()
}
