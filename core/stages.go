package core

// stageIndex numbers every stage (axial and parallel) in depth-first
// pre-order. Core stages are therefore numbered nose to tail, and each
// parallel stage follows the core stage it is attached to.
type stageIndex struct {
	stages  []*Component
	numbers map[*Component]int
}

func numberStages(root *Component) stageIndex {
	idx := stageIndex{numbers: make(map[*Component]int)}
	root.Walk(func(c *Component) bool {
		if c.IsStage() {
			idx.numbers[c] = len(idx.stages)
			idx.stages = append(idx.stages, c)
		}
		return true
	})
	return idx
}

func (r *Rocket) stageIdx() stageIndex {
	if r.stageCache.mod != r.modID {
		r.stageCache.idx = numberStages(r.root)
		r.stageCache.mod = r.modID
	}
	return r.stageCache.idx
}

// StageCount returns the number of stages, active or not.
func (r *Rocket) StageCount() int { return len(r.stageIdx().stages) }

// Stage returns stage n, or nil when n is out of range.
func (r *Rocket) Stage(n int) *Component {
	stages := r.stageIdx().stages
	if n < 0 || n >= len(stages) {
		return nil
	}
	return stages[n]
}

// Stages returns all stages in stage-number order.
func (r *Rocket) Stages() []*Component {
	stages := r.stageIdx().stages
	out := make([]*Component, len(stages))
	copy(out, stages)
	return out
}

// StageNumber returns the number of stage, or -1 if it is not a stage of r.
func (r *Rocket) StageNumber(stage *Component) int {
	if n, ok := r.stageIdx().numbers[stage]; ok {
		return n
	}
	return -1
}

// CoreStages returns the axial stages directly below the root, nose to tail.
func (r *Rocket) CoreStages() []*Component {
	var out []*Component
	for _, ch := range r.root.children {
		if ch.kind == KindAxialStage {
			out = append(out, ch)
		}
	}
	return out
}

// SubStages returns the parallel stages nested under stage, at any depth, in
// stage-number order.
func (r *Rocket) SubStages(stage *Component) []*Component {
	var out []*Component
	for _, s := range r.stageIdx().stages {
		if s == stage || s.kind != KindParallelStage {
			continue
		}
		for p := s.parent; p != nil; p = p.parent {
			if p == stage {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

func (r *Rocket) subStageNumbers(n int) []int {
	stage := r.Stage(n)
	if stage == nil {
		return nil
	}
	subs := r.SubStages(stage)
	out := make([]int, len(subs))
	for i, s := range subs {
		out[i] = r.StageNumber(s)
	}
	return out
}

// TopmostStage returns the lowest-numbered active stage of fc, or nil.
func (r *Rocket) TopmostStage(fc *FlightConfiguration) *Component {
	for n, s := range r.stageIdx().stages {
		if fc.IsStageActive(n) {
			return s
		}
	}
	return nil
}

// BottomCoreStage returns the highest-numbered active axial stage of fc, or
// nil.
func (r *Rocket) BottomCoreStage(fc *FlightConfiguration) *Component {
	stages := r.stageIdx().stages
	for n := len(stages) - 1; n >= 0; n-- {
		if stages[n].kind == KindAxialStage && fc.IsStageActive(n) {
			return stages[n]
		}
	}
	return nil
}
