package designs

import (
	"github.com/signalsfoundry/rocketcfg/core"
	"github.com/signalsfoundry/rocketcfg/kb"
)

// Falcon9Heavy builds a scale Falcon 9 Heavy: a payload stage, a core stage
// carrying an M1350, and two parallel boosters attached to the core body,
// each with a 4-ring cluster of G77s. Stage numbers: payload 0, core 1,
// boosters 2. The selected configuration loads all motors.
func Falcon9Heavy(cat *kb.MotorCatalog, opts ...core.RocketOption) (*core.Rocket, error) {
	a := newAssembler(cat)
	r := core.NewRocket("Falcon9 Heavy", opts...)

	payload := core.NewAxialStage("Payload Fairing Stage")
	nose := core.NewNoseCone("PL Fairing Nose", core.ShapePower, 0.118, 0.052)
	fairing := core.NewBodyTube("PL Fairing Body", 0.132, 0.052, 0.001)
	transition := core.NewTransition("PL Fairing Transition", core.ShapeConical, 0.014, 0.052, 0.0385)
	upper := core.NewBodyTube("Upper Stage Body", 0.18, 0.0385, 0.001)
	chute := core.NewParachute("Parachute", 0.5, 0.05, 0.03)
	cord := core.NewShockCord("Shock Cord", 1.0, 0.03, 0.02)
	a.place(cord, core.AxialTop, 0.05)
	interstage := core.NewBodyTube("Interstage", 0.12, 0.0385, 0.001)

	coreStage := core.NewAxialStage("Core Stage")
	coreBody := core.NewBodyTube("Core Stage Body", 0.8, 0.0385, 0.001)
	a.do(coreBody.SetMotorMount(true))

	boosters := core.NewParallelStage("Booster Stage", 2)
	a.place(boosters, core.AxialBottom, 0)
	a.do(boosters.SetRadiusOffset(core.RadiusSurface, 0))
	a.do(boosters.SetAngleOffset(0))
	boosterNose := core.NewNoseCone("Booster Nosecone", core.ShapePower, 0.08, 0.0385)
	boosterBody := core.NewBodyTube("Booster Body", 0.8, 0.0385, 0.001)
	boosterMMT := core.NewInnerTube("Booster Motor Tubes", 0.15, 0.015, 0.0005)
	a.place(boosterMMT, core.AxialBottom, 0)
	a.do(boosterMMT.SetClusterConfig(core.Cluster4Ring))
	a.do(boosterMMT.SetMotorMount(true))
	boosterFins := core.NewFinSet("Booster Fins", 3, 0.32, 0.12, 0.18, 0.12, 0.003)
	a.place(boosterFins, core.AxialBottom, 0)

	a.add(r.Root(), payload, coreStage)
	a.add(payload, nose, fairing, transition, upper, interstage)
	a.add(upper, chute, cord)
	a.add(coreStage, coreBody)
	a.add(coreBody, boosters)
	a.add(boosters, boosterNose, boosterBody)
	a.add(boosterBody, boosterMMT, boosterFins)

	id := a.config(r)
	a.load(coreBody, id, "M1350", 0)
	a.load(boosterMMT, id, "G77", 0)
	if a.err == nil {
		a.do(r.SetSelectedConfiguration(id))
	}

	if a.err != nil {
		return nil, a.err
	}
	return r, nil
}
