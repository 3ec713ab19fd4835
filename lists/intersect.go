// Package lists intersects the surviving-row index lists produced by
// running several filter kernels over one block.
package lists

// Intersect writes the common elements of a and b into out using a
// caller-owned scratch map, for lists with no ordering guarantee.
func Intersect[T uint64 | uint32 | uint16](a, b, out []T, cache map[T]uint8) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	clear(cache)
	var other []T

	if len(a) < len(b) {

		other = b
		for _, v := range a {
			cache[v] = 0
		}
	} else {
		other = a
		for _, v := range b {
			cache[v] = 0
		}
	}

	filled := 0
	for _, v := range other {
		if _, ok := cache[v]; ok {
			out[filled] = v
			filled++
		}
	}

	return filled
}

// IntersectSorted merges two ascending index lists, the shape the
// filter kernels emit. out may alias a.
func IntersectSorted(a, b, out []uint32) int {

	filled := 0
	i, j := 0, 0

	for i < len(a) && j < len(b) {
		av, bv := a[i], b[j]

		switch {
		case av == bv:
			out[filled] = av
			filled++
			i++
			j++
		case av < bv:
			i++
		default:
			j++
		}
	}

	return filled
}
