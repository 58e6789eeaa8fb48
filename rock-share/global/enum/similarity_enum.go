package enum

// SimilarityMeasure 聚类时属性间相似度的度量方式
type SimilarityMeasure string

const (
	// Agreement 秩矩阵一致率
	Agreement SimilarityMeasure = "agreement"
	// Kendall |tau-b|
	Kendall SimilarityMeasure = "kendall"
	// Spearman 秩上的 |pearson|
	Spearman SimilarityMeasure = "spearman"
)

func (m SimilarityMeasure) Valid() bool {
	return m == Agreement || m == Kendall || m == Spearman
}
