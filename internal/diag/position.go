package diag

import "strconv"

// Pos is an optional 1-based coordinate (line or column).
type Pos struct {
	Value uint64
	Set   bool
}

// At returns a set position.
func At(v uint64) Pos { return Pos{Value: v, Set: true} }

// NoPos is the absent coordinate.
var NoPos = Pos{}

func (p Pos) String() string {
	if !p.Set {
		return "?"
	}
	return strconv.FormatUint(p.Value, 10)
}
