package corr

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Spearman 平均秩(相同值取平均秩)上的 pearson 相关系数
// 任一列为常数时返回0
func Spearman(rankA, rankB []float64) float64 {
	if len(rankA) < 2 || len(rankA) != len(rankB) {
		return 0
	}
	r := stat.Correlation(rankA, rankB, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}
