package utils

import (
	"math"
	"runtime"
)

type Number interface {
	int | int64 | int32 | uint32 | uint64 | float64
}

func Max[N Number](a, b N) N {
	if a > b {
		return a
	} else {
		return b
	}
}

func Min[N Number](a, b N) N {
	if a < b {
		return a
	} else {
		return b
	}
}

func Distinct[T comparable](s []T) []T {
	seen := make(map[T]struct{}, len(s))
	res := make([]T, 0, len(s))
	for _, v := range s {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		res = append(res, v)
	}
	return res
}

// Round 保留digits位小数
func Round(v float64, digits int) float64 {
	p := math.Pow10(digits)
	return math.Round(v*p) / p
}

// WorkerNum 并发数，<=0时按cpu核数留一个
func WorkerNum(configured int) int {
	if configured > 0 {
		return configured
	}
	cpuNum := runtime.NumCPU() - 1
	if cpuNum <= 0 {
		cpuNum = 1
	}
	return cpuNum
}
