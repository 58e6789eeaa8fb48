package cluster

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"gp-miner/gradual_pattern/corr"
	"gp-miner/gradual_pattern/support"
	"gp-miner/rock-share/global/enum"
	"gp-miner/rock-share/global/model/gp"
	"gp-miner/utils"
)

// Similarity 两列之间的相似度，取值[0,1]
//   agreement: max(support{a+,b+}, support{a+,b-})，即两列秩矩阵的一致率
//   kendall:   |tau-b|
//   spearman:  平均秩上的 |pearson|
func Similarity(ctx context.Context, sess *support.Session, a, b int, measure enum.SimilarityMeasure) (float64, error) {
	if a == b {
		return 1, nil
	}
	enc := sess.Engine().Encoder()
	switch measure {
	case enum.Agreement, "":
		same, err := sess.Evaluate(gp.MustPattern(gp.Inc(a), gp.Inc(b)))
		if err != nil {
			return 0, err
		}
		opposite, err := sess.Evaluate(gp.MustPattern(gp.Inc(a), gp.Dec(b)))
		if err != nil {
			return 0, err
		}
		return math.Max(same, opposite), nil
	case enum.Kendall:
		ds := enc.Dataset()
		if a < 0 || a >= ds.Attributes() || b < 0 || b >= ds.Attributes() {
			return 0, errors.Wrapf(utils.ErrInvalidAttribute, "attribute %d or %d out of range", a, b)
		}
		tau, err := corr.KendallExact(ctx, ds.GetAllValuesOf(a), ds.GetAllValuesOf(b))
		if err != nil {
			return 0, err
		}
		return math.Abs(tau), nil
	case enum.Spearman:
		ra, err := enc.Ranks(a)
		if err != nil {
			return 0, err
		}
		rb, err := enc.Ranks(b)
		if err != nil {
			return 0, err
		}
		return math.Abs(corr.Spearman(ra, rb)), nil
	}
	return 0, errors.Wrapf(utils.ErrInvalidConfig, "unknown similarity measure %q", measure)
}
