package designs

import (
	"github.com/signalsfoundry/rocketcfg/core"
	"github.com/signalsfoundry/rocketcfg/kb"
)

// AlphaIII builds the Estes Alpha III: one stage, a single motor tube and
// five flight configurations (A8-3, B4-4, C6-3, C6-5, C6-7). The selected
// configuration is left on the empty configuration.
func AlphaIII(cat *kb.MotorCatalog, opts ...core.RocketOption) (*core.Rocket, error) {
	a := newAssembler(cat)
	r := core.NewRocket("Estes Alpha III", opts...)

	stage := core.NewAxialStage("Stage")
	nose := core.NewNoseCone("Nose Cone", core.ShapeOgive, 0.07, 0.012)
	body := core.NewBodyTube("Body Tube", 0.20, 0.012, 0.0003)

	fins := core.NewFinSet("Fins", 3, 0.05, 0.03, 0.02, 0.05, 0.0032)
	lug := core.NewLaunchLug("Launch Lug", 0.05, 0.0022, 0.0003)
	a.place(lug, core.AxialTop, 0.111)

	mmt := core.NewInnerTube("Motor Mount Tube", 0.07, 0.009, 0.0003)
	a.place(mmt, core.AxialTop, 0.133)
	a.do(mmt.SetMotorMount(true))
	block := core.NewEngineBlock("Engine Block", 0.005, 0.009, 0.0065)

	chute := core.NewParachute("Parachute", 0.3, 0.04, 0.011)
	a.place(chute, core.AxialTop, 0.02)
	cord := core.NewShockCord("Shock Cord", 0.4, 0.02, 0.008)
	a.place(cord, core.AxialTop, 0.0)

	a.add(r.Root(), stage)
	a.add(stage, nose, body)
	a.add(body, fins, lug, mmt, chute, cord)
	a.add(mmt, block)

	for _, m := range []struct {
		designation string
		delay       float64
	}{
		{"A8", 3}, {"B4", 4}, {"C6", 3}, {"C6", 5}, {"C6", 7},
	} {
		id := a.config(r)
		a.load(mmt, id, m.designation, m.delay)
	}

	if a.err != nil {
		return nil, a.err
	}
	return r, nil
}
