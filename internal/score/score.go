// Package score holds the read-only scoring and frame-timing tables used by the
// chain resolver.
package score

const (
	// FramesVanishAnimation is charged once per chain step.
	FramesVanishAnimation = 50
	// FramesGrounding is charged after a step where something fell.
	FramesGrounding = 16
)

var chainBonus = [...]int{
	0, 0, 8, 16, 32, 64, 96, 128, 160, 192,
	224, 256, 288, 320, 352, 384, 416, 448, 480, 512,
}

var longBonus = [...]int{0, 0, 0, 0, 0, 2, 3, 4, 5, 6, 7}

var colorBonus = [...]int{0, 0, 3, 6, 12, 24}

// framesToDropFast is indexed by the number of rows fallen.
var framesToDropFast = [...]int{0, 10, 12, 14, 16, 18, 20, 22, 24, 26, 28, 30, 32, 34, 36}

// framesToDrop is free fall without the fast-drop button, indexed by rows.
var framesToDrop = [...]int{0, 19, 24, 28, 31, 34, 37, 40, 42, 44, 46, 48, 50, 52, 54}

// framesToMoveHorizontally is indexed by the columns a pair shifts from spawn.
var framesToMoveHorizontally = [...]int{0, 6, 8, 10, 12, 14}

// ChainBonus returns the bonus for the n-th chain (1-based). Chains past the table
// keep the last value.
func ChainBonus(n int) int {
	if n <= 0 {
		return 0
	}
	if n >= len(chainBonus) {
		return chainBonus[len(chainBonus)-1]
	}
	return chainBonus[n]
}

// LongBonus returns the group-size bonus for one vanishing group of size n.
func LongBonus(n int) int {
	if n < 0 {
		return 0
	}
	if n >= len(longBonus) {
		return 10
	}
	return longBonus[n]
}

// ColorBonus returns the bonus for n distinct colors vanishing in one step.
func ColorBonus(n int) int {
	if n <= 0 {
		return 0
	}
	if n >= len(colorBonus) {
		return colorBonus[len(colorBonus)-1]
	}
	return colorBonus[n]
}

// RensaBonusCoef combines the three bonuses. The coefficient is never below 1.
func RensaBonusCoef(chain, long, color int) int {
	coef := chain + long + color
	if coef == 0 {
		return 1
	}
	return coef
}

// FramesToDropFast returns the animation frames for a drop of the given rows.
func FramesToDropFast(rows int) int { return clamped(framesToDropFast[:], rows) }

// FramesToDrop returns the frames of a free fall over the given rows.
func FramesToDrop(rows int) int { return clamped(framesToDrop[:], rows) }

// FramesToMoveHorizontally returns the frames spent shifting a pair cols columns.
func FramesToMoveHorizontally(cols int) int { return clamped(framesToMoveHorizontally[:], cols) }

func clamped(table []int, i int) int {
	if i <= 0 {
		return 0
	}
	if i >= len(table) {
		return table[len(table)-1]
	}
	return table[i]
}

// StepScore is the score of one chain step erasing numErased colored cells.
func StepScore(chain, numErased, long, numColors int) int {
	return 10 * numErased * RensaBonusCoef(ChainBonus(chain), long, ColorBonus(numColors))
}
