package txtmesh

import "fmt"
import "strings"

// The point of the text layout box that ends up at the placement
// origin. The zero value is [Center].
type Pivot uint8
const (
	Center Pivot = iota
	BottomLeft
	BottomCenter
	BottomRight
	CenterLeft
	CenterRight
	TopLeft
	TopCenter
	TopRight
	pivotSentinel
)

func (self Pivot) String() string {
	switch self {
	case Center      : return "Center"
	case BottomLeft  : return "BottomLeft"
	case BottomCenter: return "BottomCenter"
	case BottomRight : return "BottomRight"
	case CenterLeft  : return "CenterLeft"
	case CenterRight : return "CenterRight"
	case TopLeft     : return "TopLeft"
	case TopCenter   : return "TopCenter"
	case TopRight    : return "TopRight"
	default:
		return "UnknownPivot"
	}
}

// Returns whether the pivot is one of the defined constants.
func (self Pivot) Valid() bool { return self < pivotSentinel }

// Returns the pivot position within the layout box as signs for each
// axis: -1 for left/bottom, 0 for center, +1 for right/top.
func (self Pivot) factors() (sx, sy float32) {
	switch self {
	case Center      : return  0,  0
	case BottomLeft  : return -1, -1
	case BottomCenter: return  0, -1
	case BottomRight : return  1, -1
	case CenterLeft  : return -1,  0
	case CenterRight : return  1,  0
	case TopLeft     : return -1,  1
	case TopCenter   : return  0,  1
	case TopRight    : return  1,  1
	default:
		panic("unhandled switch case")
	}
}

// Parses a pivot from its name, as returned by [Pivot.String]().
// Case, spaces, dashes and underscores are ignored, so "top-left"
// and "Top Left" are both valid.
func ParsePivot(name string) (Pivot, error) {
	normalized := strings.Map(func(r rune) rune {
		if r == ' ' || r == '-' || r == '_' { return -1 }
		return r
	}, name)
	for pivot := Center; pivot < pivotSentinel; pivot++ {
		if strings.EqualFold(normalized, pivot.String()) { return pivot, nil }
	}
	return Center, fmt.Errorf("%w: %q", ErrInvalidPivot, name)
}
