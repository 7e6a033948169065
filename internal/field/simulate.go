// path: internal/field/simulate.go
package field

import (
	"rensa_sim/internal/score"
	"rensa_sim/internal/shared"
)

// RensaResult is the outcome of one full cascade.
type RensaResult struct {
	Chains int  `json:"chains"`
	Score  int  `json:"score"`
	Frames int  `json:"frames"`
	Quick  bool `json:"quick"`
}

// StepResult is the outcome of a single vanish and drop.
type StepResult struct {
	Vanished bool `json:"vanished"`
	Score    int  `json:"score"`
	Frames   int  `json:"frames"`
	Quick    bool `json:"quick"`
}

type vanishStats struct {
	numErased int
	longBonus int
	numColors int
}

// vanishingGroups collects every colored group that vanishes at the next step.
// numColors is 0 when nothing vanishes.
func (bf *BitField) vanishingGroups() (Bits, vanishStats) {
	var groups Bits
	var st vanishStats

	for _, c := range shared.NormalColors {
		mask := bf.MatchMask(c)
		seeds := VanishingSeeds(mask)
		if seeds.IsEmpty() {
			continue
		}
		st.numColors++
		for !seeds.IsEmpty() {
			var seed Bits
			seed, seeds = seeds.PopLowest()
			group, n := ExpandGroup(seed, mask)
			st.numErased += n
			st.longBonus += score.LongBonus(n)
			groups = groups.Or(group)
			mask = mask.AndNot(group)
			seeds = seeds.AndNot(group)
		}
	}
	return groups, st
}

// findErased adds the ojama touching the vanishing groups.
func (bf *BitField) findErased() (Bits, vanishStats) {
	groups, st := bf.vanishingGroups()
	if st.numColors == 0 {
		return Bits{}, st
	}
	ojama := groups.Expand1(bf.MatchMask(shared.Ojama))
	return groups.Or(ojama), st
}

// IgnitionMask returns the colored cells the next step would erase.
func (bf *BitField) IgnitionMask() Bits {
	groups, _ := bf.vanishingGroups()
	return groups
}

// ErasingMask returns what the next step would erase, ojama included.
func (bf *BitField) ErasingMask() Bits {
	erased, _ := bf.findErased()
	return erased
}

// RensaWillOccur reports whether some group is ready to vanish.
func (bf *BitField) RensaWillOccur() bool {
	for _, c := range shared.NormalColors {
		if !VanishingSeeds(bf.MatchMask(c)).IsEmpty() {
			return true
		}
	}
	return false
}

func (bf *BitField) vanishDrop(chain int, tracker Tracker, coef StepCoefObserver) StepResult {
	erased, st := bf.findErased()
	if st.numColors == 0 {
		return StepResult{}
	}
	tracker.OnStepErased(chain, erased)
	colorBonus := score.ColorBonus(st.numColors)
	if coef != nil {
		coef.OnStepCoef(chain, st.numErased, st.longBonus, colorBonus)
	}

	res := StepResult{
		Vanished: true,
		Score:    score.StepScore(chain, st.numErased, st.longBonus, st.numColors),
		Frames:   score.FramesVanishAnimation,
	}
	bf.Erase(erased)
	if maxDrop := bf.DropAll(erased); maxDrop > 0 {
		res.Frames += score.FramesToDropFast(maxDrop) + score.FramesGrounding
	} else {
		res.Quick = true
	}
	return res
}

// Simulate runs the cascade to the end starting at chain index initialChain.
// Chains in the result is the index of the last chain that fired, so it counts
// from 1 when initialChain is 1.
func (bf *BitField) Simulate(initialChain int, tracker Tracker) RensaResult {
	if tracker == nil {
		tracker = NopTracker{}
	}
	coef, _ := tracker.(StepCoefObserver)

	var res RensaResult
	chain := initialChain
	for {
		step := bf.vanishDrop(chain, tracker, coef)
		if !step.Vanished {
			break
		}
		res.Score += step.Score
		res.Frames += step.Frames
		if step.Quick {
			res.Quick = true
		}
		chain++
	}
	res.Chains = chain - 1
	if chain == initialChain {
		res.Chains = 0
	}
	return res
}

// SimulateFast runs the cascade keeping only the chain count and score.
func (bf *BitField) SimulateFast() (chains, total int) {
	chain := 1
	for {
		erased, st := bf.findErased()
		if st.numColors == 0 {
			return chain - 1, total
		}
		total += score.StepScore(chain, st.numErased, st.longBonus, st.numColors)
		bf.Erase(erased)
		bf.DropAll(erased)
		chain++
	}
}
