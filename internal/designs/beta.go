package designs

import (
	"github.com/signalsfoundry/rocketcfg/core"
	"github.com/signalsfoundry/rocketcfg/kb"
)

// Beta builds a two-stage sport rocket: a sustainer on top of a short
// booster, each with its own motor. One configuration loads both motors and
// is selected.
func Beta(cat *kb.MotorCatalog, opts ...core.RocketOption) (*core.Rocket, error) {
	a := newAssembler(cat)
	r := core.NewRocket("Beta", opts...)

	sustainer := core.NewAxialStage("Sustainer")
	nose := core.NewNoseCone("Nose Cone", core.ShapeOgive, 0.07, 0.012)
	body := core.NewBodyTube("Sustainer Body", 0.20, 0.012, 0.0003)
	fins := core.NewFinSet("Sustainer Fins", 3, 0.05, 0.03, 0.02, 0.05, 0.0032)
	mmt := core.NewInnerTube("Sustainer Motor Tube", 0.07, 0.009, 0.0003)
	a.place(mmt, core.AxialBottom, 0)
	a.do(mmt.SetMotorMount(true))
	chute := core.NewParachute("Parachute", 0.3, 0.04, 0.011)
	a.place(chute, core.AxialTop, 0.02)

	booster := core.NewAxialStage("Booster")
	boosterBody := core.NewBodyTube("Booster Body", 0.065, 0.012, 0.0003)
	boosterFins := core.NewFinSet("Booster Fins", 3, 0.05, 0.03, 0.02, 0.05, 0.0032)
	boosterMMT := core.NewInnerTube("Booster Motor Tube", 0.065, 0.009, 0.0003)
	a.place(boosterMMT, core.AxialBottom, 0)
	a.do(boosterMMT.SetMotorMount(true))

	a.add(r.Root(), sustainer, booster)
	a.add(sustainer, nose, body)
	a.add(body, fins, mmt, chute)
	a.add(booster, boosterBody)
	a.add(boosterBody, boosterFins, boosterMMT)

	id := a.config(r)
	a.load(mmt, id, "B4", 4)
	a.load(boosterMMT, id, "C6", 0)
	if a.err == nil {
		a.do(r.SetSelectedConfiguration(id))
	}

	if a.err != nil {
		return nil, a.err
	}
	return r, nil
}
