package ops

// FilterRange keeps indices with from <= arr[i] <= to.
func FilterRange[T Numeric](arr []T, from, to T, out []uint32) int {
	if to < from {
		return 0
	}

	n := len(arr)
	filled := 0
	i := 0

	for ; i+7 < n; i += 8 {
		a0 := arr[i+0]
		a1 := arr[i+1]
		a2 := arr[i+2]
		a3 := arr[i+3]
		a4 := arr[i+4]
		a5 := arr[i+5]
		a6 := arr[i+6]
		a7 := arr[i+7]

		im0 := b2i(a0 >= from && a0 <= to)
		im1 := b2i(a1 >= from && a1 <= to)
		im2 := b2i(a2 >= from && a2 <= to)
		im3 := b2i(a3 >= from && a3 <= to)
		im4 := b2i(a4 >= from && a4 <= to)
		im5 := b2i(a5 >= from && a5 <= to)
		im6 := b2i(a6 >= from && a6 <= to)
		im7 := b2i(a7 >= from && a7 <= to)

		out[filled] = uint32(i + 0)
		filled += im0
		out[filled] = uint32(i + 1)
		filled += im1
		out[filled] = uint32(i + 2)
		filled += im2
		out[filled] = uint32(i + 3)
		filled += im3
		out[filled] = uint32(i + 4)
		filled += im4
		out[filled] = uint32(i + 5)
		filled += im5
		out[filled] = uint32(i + 6)
		filled += im6
		out[filled] = uint32(i + 7)
		filled += im7
	}

	for ; i < n; i++ {
		a := arr[i]
		if a >= from && a <= to {
			out[filled] = uint32(i)
			filled++
		}
	}

	return filled
}
