package schema

type BoundsFilterMatchResult uint8

const (
	UnknownIntersection BoundsFilterMatchResult = iota
	NoIntersection
	PartialIntersection
	FullIntersection
)

// BoundsFloat keeps the min/max of a numeric column as float64 so one
// header field works for every numeric field type.
type BoundsFloat struct {
	Min float64
	Max float64
}

func NewBoundsFromValues(min, max float64) BoundsFloat {
	return BoundsFloat{Min: min, Max: max}
}

// Morph widens b to cover other, reports whether anything changed.
func (b *BoundsFloat) Morph(other BoundsFloat) bool {

	changes := 0

	if other.Min < b.Min {
		b.Min = other.Min
		changes += 1
	}
	if other.Max > b.Max {
		b.Max = other.Max
		changes += 1
	}

	return changes != 0
}

func (b *BoundsFloat) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

func (b *BoundsFloat) Intersects(other BoundsFloat) BoundsFilterMatchResult {
	if other.Max < b.Min || other.Min > b.Max {
		return NoIntersection
	}
	if other.Min <= b.Min && other.Max >= b.Max {
		return FullIntersection
	}
	return PartialIntersection
}
