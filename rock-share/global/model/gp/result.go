package gp

import "sort"

// Result 一个模式及其支持度
type Result struct {
	Pattern Pattern
	Support float64
	Pairs   uint64 // 满足模式的行对数
}

// SortResults 支持度降序，其次长度升序，最后按签名字典序
func SortResults(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return ResultLess(results[i], results[j])
	})
}

func ResultLess(a, b Result) bool {
	if a.Support != b.Support {
		return a.Support > b.Support
	}
	if a.Pattern.Size() != b.Pattern.Size() {
		return a.Pattern.Size() < b.Pattern.Size()
	}
	return Compare(a.Pattern, b.Pattern) < 0
}

// Maximal 去掉被其他模式包含的模式
func Maximal(results []Result) []Result {
	res := make([]Result, 0, len(results))
	for i, r := range results {
		covered := false
		for j, other := range results {
			if i == j || other.Pattern.Size() <= r.Pattern.Size() {
				continue
			}
			if r.Pattern.IsSubsetOf(other.Pattern) || r.Pattern.Inverse().IsSubsetOf(other.Pattern) {
				covered = true
				break
			}
		}
		if !covered {
			res = append(res, r)
		}
	}
	return res
}
