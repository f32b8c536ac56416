package designs

import (
	"github.com/signalsfoundry/rocketcfg/kb"
	"github.com/signalsfoundry/rocketcfg/model"
)

var (
	AeroTech = model.Manufacturer{Name: "AeroTech", Abbreviation: "A"}
	Estes    = model.Manufacturer{Name: "Estes", Abbreviation: "E"}
)

// DefaultMotors is the motor set used by the built-in designs.
var DefaultMotors = []model.Motor{
	{Designation: "A8", Manufacturer: Estes, Diameter: 0.018, Length: 0.07, TotalImpulse: 2.5, Delays: []float64{3, 5}},
	{Designation: "B4", Manufacturer: Estes, Diameter: 0.018, Length: 0.07, TotalImpulse: 5, Delays: []float64{2, 4}},
	{Designation: "C6", Manufacturer: Estes, Diameter: 0.018, Length: 0.07, TotalImpulse: 10, Delays: []float64{0, 3, 5, 7}},
	{Designation: "G77", Manufacturer: AeroTech, Diameter: 0.029, Length: 0.124, TotalImpulse: 120, Delays: []float64{0, 4, 7, 10}},
	{Designation: "M1350", Manufacturer: AeroTech, Diameter: 0.075, Length: 0.621, TotalImpulse: 5000, Delays: []float64{0, model.DelayPlugged}},
}

// DefaultCatalog returns a fresh catalog holding DefaultMotors.
func DefaultCatalog() *kb.MotorCatalog {
	cat := kb.NewMotorCatalog()
	for _, m := range DefaultMotors {
		// Designations in DefaultMotors are unique.
		_ = cat.AddMotor(m)
	}
	return cat
}
