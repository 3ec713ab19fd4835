package lists

import (
	"math/rand"
	"sort"
	"testing"
)

func randomFillIndices(n int, fillPercent int) []uint32 {
	out := make([]uint32, 0, n*fillPercent/100)
	for i := 0; i < n; i++ {
		if rand.Intn(100) < fillPercent {
			out = append(out, uint32(i))
		}
	}
	return out
}

func TestIntersectSimple(t *testing.T) {

	a := []uint32{1, 3, 5, 7, 9}
	b := []uint32{3, 4, 7, 10}

	out := make([]uint32, len(a))

	filled := IntersectSorted(a, b, out)

	if filled != 2 {
		t.Errorf("Expected %d but got %d", 2, filled)
	} else if out[0] != 3 || out[1] != 7 {
		t.Errorf("result compare Expected [3 7] but got %v", out[:filled])
	}
}

func TestIntersectSortedAliasesFirstInput(t *testing.T) {

	a := []uint32{0, 2, 4, 6, 8}
	b := []uint32{2, 6, 8}

	filled := IntersectSorted(a, b, a)

	if filled != 3 {
		t.Errorf("Expected %d but got %d", 3, filled)
	} else if a[0] != 2 || a[1] != 6 || a[2] != 8 {
		t.Errorf("result compare Expected [2 6 8] but got %v", a[:filled])
	}
}

func TestIntersectEmptyInputs(t *testing.T) {

	out := make([]uint32, 4)
	cache := map[uint32]uint8{}

	if Intersect([]uint32{}, []uint32{1, 2}, out, cache) != 0 {
		t.Errorf("empty input must yield empty intersection")
	}
	if IntersectSorted([]uint32{1, 2}, nil, out) != 0 {
		t.Errorf("empty input must yield empty intersection")
	}
}

func TestMergeIsCorrect(t *testing.T) {
	size := 4000
	testI := 20

	out := make([]uint32, size*2)
	outSorted := make([]uint32, size*2)
	cacheMap := map[uint32]uint8{}

	for i := 0; i < testI; i++ {
		input := randomFillIndices(size, 35)
		input2 := randomFillIndices(size, 30)

		intersectSlowResult := Intersect(input, input2, out, cacheMap)
		intersectSortedResult := IntersectSorted(input, input2, outSorted)

		if intersectSortedResult != intersectSlowResult {
			t.Errorf("Expected [slow=%d] but got [sorted = %d]", intersectSlowResult, intersectSortedResult)
		}

		sort.Slice(out[:intersectSlowResult], func(a, b int) bool {
			return out[a] < out[b]
		})

		for j := 0; j < intersectSortedResult; j++ {
			if out[j] != outSorted[j] {
				t.Fatalf("mismatch at %d: slow=%d sorted=%d", j, out[j], outSorted[j])
			}
		}
	}
}

func BenchmarkIntersectSlowSparse(t *testing.B) {

	size := 4000

	input := randomFillIndices(size, 35)
	input2 := randomFillIndices(size, 30)

	out := make([]uint32, size*2)
	cache := map[uint32]uint8{}

	for i := 0; i < t.N; i++ {
		Intersect(input, input2, out, cache)
	}
}

func BenchmarkIntersectSortedSparse(t *testing.B) {

	size := 4000

	input := randomFillIndices(size, 35)
	input2 := randomFillIndices(size, 30)

	out := make([]uint32, size*2)

	for i := 0; i < t.N; i++ {
		IntersectSorted(input, input2, out)
	}
}

func BenchmarkIntersectSortedFull(t *testing.B) {

	size := 4000

	input := randomFillIndices(size, 85)
	input2 := randomFillIndices(size, 80)

	out := make([]uint32, size*2)

	for i := 0; i < t.N; i++ {
		IntersectSorted(input, input2, out)
	}
}
