package support

import (
	"math"

	"github.com/pkg/errors"
	"gp-miner/gradual_pattern/rank"
	"gp-miner/gradual_pattern/util/bitset"
	"gp-miner/rock-share/global/model/gp"
	"gp-miner/utils"
)

// Engine 支持度计算，本身无状态，可并发调用
// support(P) = |P中各梯度项矩阵的交集| / (n(n-1)/2)
// 等价于 与P或P的逆模式一致的有序行对数 / n(n-1)
type Engine struct {
	enc   *rank.Encoder
	total uint64
}

func NewEngine(enc *rank.Encoder) *Engine {
	return &Engine{
		enc:   enc,
		total: enc.TotalPairs(),
	}
}

func (e *Engine) Encoder() *rank.Encoder {
	return e.enc
}

// TotalPairs 分母 n(n-1)/2
func (e *Engine) TotalPairs() uint64 {
	return e.total
}

// Ratio 行对数 -> 支持度
func (e *Engine) Ratio(pairs uint64) float64 {
	if e.total == 0 {
		return 0
	}
	return float64(pairs) / float64(e.total)
}

// epsilon 浮点比较的容差，0.8*45 这类乘积不一定正好是整数
const epsilon = 1e-9

// Qualifies support 是否达到阈值
func Qualifies(support, minSupport float64) bool {
	return support+epsilon >= minSupport
}

// PairsFor 支持度阈值对应的最少行对数
func (e *Engine) PairsFor(minSupport float64) uint64 {
	return uint64(math.Ceil(minSupport*float64(e.total) - epsilon))
}

// Evaluate 不走缓存，从头求交
func (e *Engine) Evaluate(p gp.Pattern) (float64, error) {
	res, err := e.Measure(p)
	if err != nil {
		return 0, err
	}
	return res.Support, nil
}

func (e *Engine) Measure(p gp.Pattern) (gp.Result, error) {
	if p.IsEmpty() {
		return gp.Result{}, errors.Wrap(utils.ErrInvalidPattern, "empty pattern")
	}
	var count uint64
	switch p.Size() {
	case 1:
		c, err := e.enc.OrderedPairs(p.Item(0).Attr)
		if err != nil {
			return gp.Result{}, err
		}
		count = c
	case 2:
		first, err := e.enc.Matrix(p.Item(0))
		if err != nil {
			return gp.Result{}, err
		}
		second, err := e.enc.Matrix(p.Item(1))
		if err != nil {
			return gp.Result{}, err
		}
		count = first.IntersectCount(second)
	default:
		bits, err := e.intersectFrom(nil, p, 0)
		if err != nil {
			return gp.Result{}, err
		}
		count = bits.Count()
	}
	return gp.Result{Pattern: p, Support: e.Ratio(count), Pairs: count}, nil
}

// intersectFrom 在base(可以为nil)的基础上，与p中从第from项开始的矩阵求交，base不会被修改
func (e *Engine) intersectFrom(base *bitset.BitSetBySlice, p gp.Pattern, from int) (*bitset.BitSetBySlice, error) {
	var res *bitset.BitSetBySlice
	if base != nil {
		res = base.Clone()
	}
	for i := from; i < p.Size(); i++ {
		m, err := e.enc.Matrix(p.Item(i))
		if err != nil {
			return nil, err
		}
		if res == nil {
			res = m.Clone()
			continue
		}
		res.Intersect(m)
	}
	return res, nil
}

// Pairs 满足模式的行对 (i, j)，即 P 在 i->j 上成立
func (e *Engine) Pairs(p gp.Pattern) ([][2]int, error) {
	if p.IsEmpty() {
		return nil, errors.Wrap(utils.ErrInvalidPattern, "empty pattern")
	}
	bits, err := e.intersectFrom(nil, p, 0)
	if err != nil {
		return nil, err
	}
	n := e.enc.Rows()
	positions := bits.AllOneBitsInUint64()
	res := make([][2]int, len(positions))
	for k, pos := range positions {
		res[k] = [2]int{int(pos) / n, int(pos) % n}
	}
	return res, nil
}
