package rank

import (
	"golang.org/x/exp/slices"
)

// valueIndexes 数值 -> 序号，序号由排序后的distinct值的位置决定，相等的值序号相同
func valueIndexes(values []float64) []int32 {
	distinct := make([]float64, len(values))
	copy(distinct, values)
	slices.Sort(distinct)
	distinct = slices.Compact(distinct)

	indexes := make([]int32, len(values))
	for i, value := range values {
		pos, _ := slices.BinarySearch(distinct, value)
		indexes[i] = int32(pos)
	}
	return indexes
}

// averageRanks 平均秩，从1开始，并列取平均
func averageRanks(values []float64) []float64 {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) bool {
		return values[a] < values[b]
	})

	ranks := make([]float64, len(values))
	for start := 0; start < len(order); {
		end := start + 1
		for end < len(order) && values[order[end]] == values[order[start]] {
			end++
		}
		// 位置 start..end-1 对应秩 start+1..end
		avg := float64(start+1+end) / 2
		for k := start; k < end; k++ {
			ranks[order[k]] = avg
		}
		start = end
	}
	return ranks
}
