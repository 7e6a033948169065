package shared

import (
	"fmt"
	"strings"
)

// Board geometry. Playable cells are x in [1, Width], y in [1, Height]; everything
// else inside the MapWidth x MapHeight frame is a sentinel.
const (
	Width         = 6
	Height        = 13
	VisibleHeight = 12
	MapWidth      = Width + 2
	MapHeight     = 16
)

// Color is the content of one cell. The numeric value is the 3-bit plane code.
type Color uint8

const (
	Empty  Color = 0
	Ojama  Color = 1
	Wall   Color = 2
	Red    Color = 4
	Blue   Color = 5
	Yellow Color = 6
	Green  Color = 7
)

// NormalColors lists the matchable colors in resolution order.
var NormalColors = [...]Color{Red, Blue, Yellow, Green}

func (c Color) IsNormal() bool { return c >= Red && c <= Green }

// IsValid reports whether c is one of the declared cell contents.
func (c Color) IsValid() bool { return c <= Green && c != 3 }

func (c Color) String() string {
	switch c {
	case Empty:
		return "empty"
	case Ojama:
		return "ojama"
	case Wall:
		return "wall"
	case Red:
		return "red"
	case Blue:
		return "blue"
	case Yellow:
		return "yellow"
	case Green:
		return "green"
	default:
		return fmt.Sprintf("color(%d)", c)
	}
}

// Rune returns the single-character form used by field rows.
func (c Color) Rune() rune {
	switch c {
	case Empty:
		return '.'
	case Ojama:
		return 'O'
	case Wall:
		return '#'
	case Red:
		return 'R'
	case Blue:
		return 'B'
	case Yellow:
		return 'Y'
	case Green:
		return 'G'
	default:
		return '?'
	}
}

// ParseColor maps a row character back to its color. A space is read as empty.
func ParseColor(r rune) (Color, bool) {
	switch r {
	case '.', ' ':
		return Empty, true
	case 'O', 'o':
		return Ojama, true
	case '#':
		return Wall, true
	case 'R', 'r':
		return Red, true
	case 'B', 'b':
		return Blue, true
	case 'Y', 'y':
		return Yellow, true
	case 'G', 'g':
		return Green, true
	default:
		return Empty, false
	}
}

// ParseColorName accepts either a full name ("red") or the row character ("R").
func ParseColorName(s string) (Color, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 1 {
		return ParseColor(rune(s[0]))
	}
	needle := strings.ToLower(s)
	for _, c := range [...]Color{Empty, Ojama, Red, Blue, Yellow, Green} {
		if c.String() == needle {
			return c, true
		}
	}
	return Empty, false
}
