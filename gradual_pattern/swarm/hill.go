package swarm

import (
	"context"
	"math/rand"

	"github.com/yourbasic/bit"
	"gp-miner/gradual_pattern/conf/mine"
	"gp-miner/rock-share/global/enum"
)

// HillClimbing 爬山搜索
// 邻域为单个梯度项的增加、删除和方向翻转，每轮移到最好的严格更优邻居；
// 陷入局部最优后用新种子重新随机出发，最多 restarts 次
type HillClimbing struct {
	cfg mine.Config
}

func NewHillClimbing(cfg mine.Config) *HillClimbing {
	return &HillClimbing{cfg: cfg}
}

func (h *HillClimbing) Name() enum.Strategy {
	return enum.HillClimbing
}

func (h *HillClimbing) Run(ctx context.Context, space *Space) (*Outcome, error) {
	return space.drive(ctx, h.Name(), &hillState{space: space, cfg: h.cfg})
}

type hillState struct {
	space      *Space
	cfg        mine.Config
	rng        *rand.Rand
	current    *bit.Set
	currentFit float64
	restarts   int
}

func (st *hillState) init(ctx context.Context) error {
	st.rng = st.space.rng
	return st.jump(ctx)
}

// jump 从一个新的随机候选出发
func (st *hillState) jump(ctx context.Context) error {
	c := st.space.randomCandidate(st.rng)
	fits, err := st.space.Evaluate(ctx, []*bit.Set{c})
	if err != nil {
		return err
	}
	st.current = st.space.Encode(st.space.Decode(c))
	st.currentFit = fits[0]
	return nil
}

func (st *hillState) step(ctx context.Context) (bool, error) {
	neighbors := st.neighbors()
	fits, err := st.space.Evaluate(ctx, neighbors)
	if err != nil {
		return false, err
	}
	bestIdx, bestFit := -1, st.currentFit
	for k, f := range fits {
		if f > bestFit+improveEpsilon {
			bestIdx, bestFit = k, f
		}
	}
	if bestIdx >= 0 {
		st.current, st.currentFit = neighbors[bestIdx], bestFit
		return true, nil
	}

	// 局部最优
	if st.restarts >= st.cfg.Restarts {
		return false, nil
	}
	st.restarts++
	st.rng = rand.New(rand.NewSource(st.cfg.RandomSeed + int64(st.restarts)))
	if err := st.jump(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// neighbors 当前模式的所有单步邻居
func (st *hillState) neighbors() []*bit.Set {
	p := st.space.Decode(st.current)
	var res []*bit.Set
	for _, attr := range st.space.attrs {
		opts := st.space.attrItems[attr]
		if !p.HasAttr(attr) {
			if st.cfg.MaxPatternSize > 0 && p.Size() >= st.cfg.MaxPatternSize {
				continue
			}
			for _, i := range opts {
				res = append(res, clone(st.current).Add(i))
			}
			continue
		}
		var cur int
		for _, i := range opts {
			if st.current.Contains(i) {
				cur = i
			}
		}
		if p.Size() > 2 {
			res = append(res, clone(st.current).Delete(cur))
		}
		for _, i := range opts {
			if i != cur {
				res = append(res, clone(st.current).Delete(cur).Add(i))
			}
		}
	}
	return res
}
