// Package report turns engine query results into plain values that can be
// rendered as text, JSON or TOML.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/signalsfoundry/rocketcfg/core"
	"github.com/signalsfoundry/rocketcfg/kb"
)

var ErrUnknownFormat = errors.New("unknown output format")

// Vec is a vehicle-frame position in metres.
type Vec struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
	Z float64 `json:"z" toml:"z"`
}

func vec(v core.Vec3) Vec { return Vec{X: v.X, Y: v.Y, Z: v.Z} }

// Box is a bounding box. An empty box has zero corners and Empty set.
type Box struct {
	Empty bool `json:"empty" toml:"empty"`
	Min   Vec  `json:"min" toml:"min"`
	Max   Vec  `json:"max" toml:"max"`
}

func box(b core.BoundingBox) Box {
	if b.IsEmpty() {
		return Box{Empty: true}
	}
	return Box{Min: vec(b.Min), Max: vec(b.Max)}
}

// Stage describes one stage of the vehicle.
type Stage struct {
	Number   int    `json:"number" toml:"number"`
	Name     string `json:"name" toml:"name"`
	Parallel bool   `json:"parallel" toml:"parallel"`
}

// Motor is one active motor mount.
type Motor struct {
	Mount        string `json:"mount" toml:"mount"`
	Stage        int    `json:"stage" toml:"stage"`
	Motor        string `json:"motor" toml:"motor"`
	Manufacturer string `json:"manufacturer" toml:"manufacturer"`
	Count        int    `json:"count" toml:"count"`
	Ignition     string `json:"ignition" toml:"ignition"`
}

// Configuration summarises one flight configuration.
type Configuration struct {
	ID                string  `json:"id" toml:"id"`
	Name              string  `json:"name" toml:"name"`
	Selected          bool    `json:"selected" toml:"selected"`
	ActiveStages      []int   `json:"active_stages" toml:"active_stages"`
	LengthAerodynamic float64 `json:"length_aerodynamic" toml:"length_aerodynamic"`
	ReferenceLength   float64 `json:"reference_length" toml:"reference_length"`
	ReferenceArea     float64 `json:"reference_area" toml:"reference_area"`
	Bounds            Box     `json:"bounds" toml:"bounds"`
	BoundsAerodynamic Box     `json:"bounds_aerodynamic" toml:"bounds_aerodynamic"`
	Motors            []Motor `json:"motors" toml:"motor"`
}

// Rocket summarises a vehicle and its registered configurations.
type Rocket struct {
	Name           string          `json:"name" toml:"name"`
	ReferenceType  string          `json:"reference_type" toml:"reference_type"`
	Stages         []Stage         `json:"stages" toml:"stage"`
	Configurations []Configuration `json:"configurations" toml:"configuration"`
}

// Instance is one placed component instance.
type Instance struct {
	Component      string `json:"component" toml:"component"`
	Kind           string `json:"kind" toml:"kind"`
	Role           string `json:"role" toml:"role"`
	Instance       int    `json:"instance" toml:"instance"`
	RocketInstance int    `json:"rocket_instance" toml:"rocket_instance"`
	Location       Vec    `json:"location" toml:"location"`
}

// Instances is the enumeration of one configuration.
type Instances struct {
	Configuration string     `json:"configuration" toml:"configuration"`
	Instances     []Instance `json:"instances" toml:"instance"`
}

// CatalogMotor is one catalog entry.
type CatalogMotor struct {
	Designation  string    `json:"designation" toml:"designation"`
	Manufacturer string    `json:"manufacturer" toml:"manufacturer"`
	Class        string    `json:"class" toml:"class"`
	Diameter     float64   `json:"diameter" toml:"diameter"`
	Length       float64   `json:"length" toml:"length"`
	TotalImpulse float64   `json:"total_impulse" toml:"total_impulse"`
	Delays       []float64 `json:"delays" toml:"delays"`
}

// Catalog lists catalog motors.
type Catalog struct {
	Motors []CatalogMotor `json:"motors" toml:"motor"`
}

// Describe summarises r and every registered configuration, in creation
// order. The empty configuration is included only when it is selected.
func Describe(r *core.Rocket) Rocket {
	out := Rocket{
		Name:          r.Name(),
		ReferenceType: r.ReferenceType().String(),
	}
	for _, s := range r.Stages() {
		out.Stages = append(out.Stages, Stage{
			Number:   s.StageNumber(),
			Name:     s.Name(),
			Parallel: s.Kind() == core.KindParallelStage,
		})
	}
	selected := r.SelectedConfiguration()
	if selected.IsEmpty() {
		out.Configurations = append(out.Configurations, DescribeConfiguration(selected, true))
	}
	for _, id := range r.IDs() {
		fc, _ := r.FlightConfiguration(id)
		out.Configurations = append(out.Configurations, DescribeConfiguration(fc, fc == selected))
	}
	return out
}

// DescribeConfiguration summarises fc.
func DescribeConfiguration(fc *core.FlightConfiguration, selected bool) Configuration {
	out := Configuration{
		ID:                string(fc.ID()),
		Name:              fc.Name(),
		Selected:          selected,
		ActiveStages:      fc.ActiveStages(),
		LengthAerodynamic: fc.LengthAerodynamic(),
		ReferenceLength:   fc.ReferenceLength(),
		ReferenceArea:     fc.ReferenceArea(),
		Bounds:            box(fc.Bounds()),
		BoundsAerodynamic: box(fc.BoundsAerodynamic()),
	}
	if out.ActiveStages == nil {
		out.ActiveStages = []int{}
	}
	for _, m := range fc.ActiveMotors() {
		out.Motors = append(out.Motors, Motor{
			Mount:        m.Mount.Name(),
			Stage:        m.StageNumber,
			Motor:        m.Config.Describe(),
			Manufacturer: m.Config.Motor.Manufacturer.Name,
			Count:        m.Count,
			Ignition:     m.Config.IgnitionEvent.String(),
		})
	}
	return out
}

// ListInstances enumerates the active instances of fc in traversal order.
func ListInstances(fc *core.FlightConfiguration) Instances {
	m := fc.ActiveInstances()
	out := Instances{Configuration: string(fc.ID())}
	for _, c := range m.Components() {
		for _, ic := range m.Contexts(c) {
			out.Instances = append(out.Instances, Instance{
				Component:      c.Name(),
				Kind:           c.Kind().String(),
				Role:           role(c),
				Instance:       ic.InstanceNumber,
				RocketInstance: ic.RocketInstanceNumber,
				Location:       vec(ic.Location()),
			})
		}
	}
	sort.SliceStable(out.Instances, func(i, j int) bool {
		return out.Instances[i].RocketInstance < out.Instances[j].RocketInstance
	})
	return out
}

// role classifies a component for instance listings: assembly (stages and
// pod sets), external (aerodynamic surfaces), mass (packed recovery gear and
// mass items) or internal.
func role(c *core.Component) string {
	switch {
	case c.IsAssembly():
		return "assembly"
	case c.IsAerodynamic():
		return "external"
	case c.IsMassObject():
		return "mass"
	default:
		return "internal"
	}
}

// ListCatalog lists cat, optionally restricted to one manufacturer.
func ListCatalog(cat *kb.MotorCatalog, manufacturer string) Catalog {
	motors := cat.ListMotors()
	if manufacturer != "" {
		motors = cat.ByManufacturer(manufacturer)
	}
	var out Catalog
	for _, m := range motors {
		out.Motors = append(out.Motors, CatalogMotor{
			Designation:  m.Designation,
			Manufacturer: m.Manufacturer.Name,
			Class:        m.ImpulseClass(),
			Diameter:     m.Diameter,
			Length:       m.Length,
			TotalImpulse: m.TotalImpulse,
			Delays:       m.Delays,
		})
	}
	return out
}

// textWriter is implemented by reports with a tabular text rendering.
type textWriter interface {
	writeText(w io.Writer) error
}

// Write renders v in the given format: text, json or toml.
func Write(w io.Writer, format string, v any) error {
	switch format {
	case "", "text":
		tw, ok := v.(textWriter)
		if !ok {
			return fmt.Errorf("%w: no text rendering for %T", ErrUnknownFormat, v)
		}
		return tw.writeText(w)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "toml":
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		return enc.Encode(v)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func metres(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }

func stageList(stages []int) string {
	if len(stages) == 0 {
		return "-"
	}
	parts := make([]string, len(stages))
	for i, n := range stages {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func (r Rocket) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Rocket:\t%s\n", r.Name)
	fmt.Fprintf(tw, "Reference:\t%s\n", r.ReferenceType)
	for _, s := range r.Stages {
		kind := "axial"
		if s.Parallel {
			kind = "parallel"
		}
		fmt.Fprintf(tw, "Stage %d:\t%s\t(%s)\n", s.Number, s.Name, kind)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, c := range r.Configurations {
		fmt.Fprintln(w)
		if err := c.writeText(w); err != nil {
			return err
		}
	}
	return nil
}

func (c Configuration) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	marker := ""
	if c.Selected {
		marker = " *"
	}
	fmt.Fprintf(tw, "Configuration:\t%s%s\n", c.ID, marker)
	fmt.Fprintf(tw, "Name:\t%s\n", c.Name)
	fmt.Fprintf(tw, "Active stages:\t%s\n", stageList(c.ActiveStages))
	fmt.Fprintf(tw, "Aerodynamic length:\t%s m\n", metres(c.LengthAerodynamic))
	fmt.Fprintf(tw, "Reference length:\t%s m\n", metres(c.ReferenceLength))
	fmt.Fprintf(tw, "Reference area:\t%.6f m²\n", c.ReferenceArea)
	if !c.Bounds.Empty {
		fmt.Fprintf(tw, "Bounds:\t[%s %s %s] .. [%s %s %s]\n",
			metres(c.Bounds.Min.X), metres(c.Bounds.Min.Y), metres(c.Bounds.Min.Z),
			metres(c.Bounds.Max.X), metres(c.Bounds.Max.Y), metres(c.Bounds.Max.Z))
	}
	for _, m := range c.Motors {
		fmt.Fprintf(tw, "Motor:\tstage %d\t%s\t%d× %s (%s)\n", m.Stage, m.Mount, m.Count, m.Motor, m.Manufacturer)
	}
	return tw.Flush()
}

func (in Instances) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCOMPONENT\tKIND\tROLE\tINSTANCE\tX\tY\tZ")
	for _, i := range in.Instances {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			i.RocketInstance, i.Component, i.Kind, i.Role, i.Instance,
			metres(i.Location.X), metres(i.Location.Y), metres(i.Location.Z))
	}
	return tw.Flush()
}

func (c Catalog) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DESIGNATION\tMANUFACTURER\tCLASS\tIMPULSE (Ns)\tDELAYS")
	for _, m := range c.Motors {
		delays := make([]string, len(m.Delays))
		for i, d := range m.Delays {
			if d < 0 {
				delays[i] = "P"
				continue
			}
			delays[i] = strconv.FormatFloat(d, 'f', -1, 64)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%s\n", m.Designation, m.Manufacturer, m.Class, m.TotalImpulse, strings.Join(delays, ","))
	}
	return tw.Flush()
}

// Design is one built-in design.
type Design struct {
	Name           string `json:"name" toml:"name"`
	Rocket         string `json:"rocket" toml:"rocket"`
	Stages         int    `json:"stages" toml:"stages"`
	Configurations int    `json:"configurations" toml:"configurations"`
}

// DesignList lists built-in designs.
type DesignList struct {
	Designs []Design `json:"designs" toml:"design"`
}

// SummarizeDesign summarises one built design under its registry name.
func SummarizeDesign(name string, r *core.Rocket) Design {
	return Design{
		Name:           name,
		Rocket:         r.Name(),
		Stages:         r.StageCount(),
		Configurations: r.ConfigurationCount(),
	}
}

func (l DesignList) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DESIGN\tROCKET\tSTAGES\tCONFIGURATIONS")
	for _, d := range l.Designs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", d.Name, d.Rocket, d.Stages, d.Configurations)
	}
	return tw.Flush()
}

// ConfigurationList is the compact listing of a rocket's configurations.
type ConfigurationList struct {
	Rocket         string          `json:"rocket" toml:"rocket"`
	Configurations []Configuration `json:"configurations" toml:"configuration"`
}

// ListConfigurations summarises every configuration of r like Describe.
func ListConfigurations(r *core.Rocket) ConfigurationList {
	d := Describe(r)
	return ConfigurationList{Rocket: d.Name, Configurations: d.Configurations}
}

func (l ConfigurationList) writeText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tNAME\tSTAGES\tLENGTH (m)\tMOTORS")
	for _, c := range l.Configurations {
		marker := ""
		if c.Selected {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n", marker, c.ID, c.Name, stageList(c.ActiveStages), metres(c.LengthAerodynamic), len(c.Motors))
	}
	return tw.Flush()
}
