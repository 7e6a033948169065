package field

import (
	"rensa_sim/internal/score"
	"rensa_sim/internal/shared"
)

// Tracker observes a simulation. OnStepErased runs once per chain step, before the
// erased cells are cleared. The mask is a copy; trackers never see the board.
type Tracker interface {
	OnStepErased(chain int, erased Bits)
}

// StepCoefObserver is an optional extension of Tracker that also receives the
// bonus inputs of every step.
type StepCoefObserver interface {
	OnStepCoef(chain, numErased, longBonus, colorBonus int)
}

// NopTracker ignores everything.
type NopTracker struct{}

func (NopTracker) OnStepErased(int, Bits) {}

// ErasedTracker records where and when cells vanished.
type ErasedTracker struct {
	chainAt [shared.MapWidth][shared.MapHeight]int
	steps   []Bits
}

func (t *ErasedTracker) OnStepErased(chain int, erased Bits) {
	erased.IterateCells(func(x, y int) {
		if t.chainAt[x][y] == 0 {
			t.chainAt[x][y] = chain
		}
	})
	t.steps = append(t.steps, erased)
}

// ChainAt returns the first chain that erased (x, y), or 0.
func (t *ErasedTracker) ChainAt(x, y int) int { return t.chainAt[x][y] }

// Steps returns the erased mask of every step in order.
func (t *ErasedTracker) Steps() []Bits { return t.steps }

// FirstErased returns the cells erased by the first recorded step.
func (t *ErasedTracker) FirstErased() Bits {
	if len(t.steps) == 0 {
		return Bits{}
	}
	return t.steps[0]
}

// Reset clears the tracker. Slices returned by Steps before the reset stay valid.
func (t *ErasedTracker) Reset() {
	t.chainAt = [shared.MapWidth][shared.MapHeight]int{}
	t.steps = nil
}

// StepCoef is the bonus breakdown of one step.
type StepCoef struct {
	Chain      int `json:"chain"`
	NumErased  int `json:"numErased"`
	LongBonus  int `json:"longBonus"`
	ColorBonus int `json:"colorBonus"`
}

// CoefTracker records the bonus breakdown of every step.
type CoefTracker struct {
	steps []StepCoef
}

func (*CoefTracker) OnStepErased(int, Bits) {}

func (t *CoefTracker) OnStepCoef(chain, numErased, longBonus, colorBonus int) {
	t.steps = append(t.steps, StepCoef{Chain: chain, NumErased: numErased, LongBonus: longBonus, ColorBonus: colorBonus})
}

func (t *CoefTracker) Steps() []StepCoef { return t.steps }

// Score recomputes the total score from the recorded coefficients.
func (t *CoefTracker) Score() int {
	total := 0
	for _, s := range t.steps {
		total += 10 * s.NumErased * score.RensaBonusCoef(score.ChainBonus(s.Chain), s.LongBonus, s.ColorBonus)
	}
	return total
}

// MultiTracker fans out to several trackers.
type MultiTracker []Tracker

func (m MultiTracker) OnStepErased(chain int, erased Bits) {
	for _, t := range m {
		t.OnStepErased(chain, erased)
	}
}

func (m MultiTracker) OnStepCoef(chain, numErased, longBonus, colorBonus int) {
	for _, t := range m {
		if o, ok := t.(StepCoefObserver); ok {
			o.OnStepCoef(chain, numErased, longBonus, colorBonus)
		}
	}
}
