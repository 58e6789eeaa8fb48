package rank

import (
	"context"
	"fmt"
	"math"
	"runtime/debug"
	"sync"

	"github.com/pkg/errors"
	"gp-miner/gradual_pattern/conf/mine"
	"gp-miner/gradual_pattern/format"
	"gp-miner/gradual_pattern/util/bitset"
	"gp-miner/rock-share/base/logger"
	"gp-miner/rock-share/global/model/gp"
	"gp-miner/utils"
)

// attrMatrices 一列的两个秩矩阵，首次用到时构建
type attrMatrices struct {
	once     sync.Once
	inc      *bitset.BitSetBySlice // inc[i*n+j] = v[i] < v[j]
	dec      *bitset.BitSetBySlice // dec[i*n+j] = v[i] > v[j]，即inc的转置
	incCount uint64
}

// Encoder 把数值列转成 n*n 的行对位矩阵，并列和对角线都是0
// 矩阵构建后只读，可以被多个搜索并发使用
type Encoder struct {
	ds    *format.Dataset
	n     int
	attrs []*attrMatrices
	ranks []*attrRanks
}

type attrRanks struct {
	once  sync.Once
	ranks []float64
}

// NewEncoder 校验每一列，NaN/Inf 返回 ErrInvalidAttribute
func NewEncoder(ds *format.Dataset) (*Encoder, error) {
	if ds == nil {
		return nil, errors.Wrap(utils.ErrInvalidDataset, "nil dataset")
	}
	for attr := 0; attr < ds.Attributes(); attr++ {
		for row, v := range ds.GetAllValuesOf(attr) {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, errors.Wrapf(utils.ErrInvalidAttribute, "column %q row %d: %v", ds.Name(attr), row, v)
			}
		}
	}
	e := &Encoder{
		ds:    ds,
		n:     ds.Rows(),
		attrs: make([]*attrMatrices, ds.Attributes()),
		ranks: make([]*attrRanks, ds.Attributes()),
	}
	for i := range e.attrs {
		e.attrs[i] = &attrMatrices{}
		e.ranks[i] = &attrRanks{}
	}
	return e, nil
}

func (e *Encoder) Dataset() *format.Dataset {
	return e.ds
}

func (e *Encoder) Rows() int {
	return e.n
}

func (e *Encoder) Attributes() int {
	return len(e.attrs)
}

// MatrixBits 矩阵位数 n*n
func (e *Encoder) MatrixBits() int {
	return e.n * e.n
}

// TotalPairs 无序行对数 n(n-1)/2，支持度的分母
func (e *Encoder) TotalPairs() uint64 {
	return uint64(e.n) * uint64(e.n-1) / 2
}

// Items 所有梯度项，按列号，每列先+后-
func (e *Encoder) Items() []gp.GradualItem {
	items := make([]gp.GradualItem, 0, 2*len(e.attrs))
	for attr := range e.attrs {
		items = append(items, gp.Inc(attr), gp.Dec(attr))
	}
	return items
}

// Matrix 返回梯度项对应的秩矩阵，调用方不能修改
func (e *Encoder) Matrix(gi gp.GradualItem) (*bitset.BitSetBySlice, error) {
	m, err := e.get(gi.Attr)
	if err != nil {
		return nil, err
	}
	if gi.Dir == gp.Decreasing {
		return m.dec, nil
	}
	return m.inc, nil
}

// OrderedPairs 该列严格有序的行对数(两个方向相同)
func (e *Encoder) OrderedPairs(attr int) (uint64, error) {
	m, err := e.get(attr)
	if err != nil {
		return 0, err
	}
	return m.incCount, nil
}

func (e *Encoder) get(attr int) (*attrMatrices, error) {
	if attr < 0 || attr >= len(e.attrs) {
		return nil, errors.Wrapf(utils.ErrInvalidAttribute, "attribute %d out of range [0,%d)", attr, len(e.attrs))
	}
	m := e.attrs[attr]
	m.once.Do(func() {
		e.build(attr, m)
	})
	return m, nil
}

func (e *Encoder) build(attr int, m *attrMatrices) {
	indexes := valueIndexes(e.ds.GetAllValuesOf(attr))
	n := e.n
	m.inc = bitset.NewBitSetBySliceWithCap(n * n)
	m.dec = bitset.NewBitSetBySliceWithCap(n * n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			switch {
			case indexes[i] < indexes[j]:
				m.inc.SetBit(i*n + j)
				m.dec.SetBit(j*n + i)
			case indexes[i] > indexes[j]:
				m.dec.SetBit(i*n + j)
				m.inc.SetBit(j*n + i)
			}
		}
	}
	m.incCount = m.inc.Count()
	logger.Debugf("[Encoder] build rank matrix of column %s, ordered pairs:%d", e.ds.Name(attr), m.incCount)
}

// Warm 并发构建全部秩矩阵
func (e *Encoder) Warm(ctx context.Context, workers int) error {
	workers = utils.Min(utils.WorkerNum(workers), mine.EncodeCoreNum)
	routinePool := make(chan struct{}, workers)
	var wg sync.WaitGroup
	var panicErr error
	var once sync.Once
	for attr := range e.attrs {
		if ctx.Err() != nil {
			break
		}
		routinePool <- struct{}{}
		wg.Add(1)
		go func(attr int) {
			defer func() {
				if err := recover(); err != nil {
					s := string(debug.Stack())
					logger.Errorf("recover.err:%v, stack:\n%v", err, s)
					once.Do(func() {
						panicErr = fmt.Errorf("encode column %d panic: %v", attr, err)
					})
				}
				<-routinePool
				wg.Done()
			}()
			_, _ = e.get(attr)
		}(attr)
	}
	wg.Wait()
	if panicErr != nil {
		return panicErr
	}
	return ctx.Err()
}

// Ranks 平均秩，spearman 用
func (e *Encoder) Ranks(attr int) ([]float64, error) {
	if attr < 0 || attr >= len(e.ranks) {
		return nil, errors.Wrapf(utils.ErrInvalidAttribute, "attribute %d out of range [0,%d)", attr, len(e.ranks))
	}
	r := e.ranks[attr]
	r.once.Do(func() {
		r.ranks = averageRanks(e.ds.GetAllValuesOf(attr))
	})
	return r.ranks, nil
}
