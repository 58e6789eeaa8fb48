package swarm

import (
	"context"
	"math"

	"github.com/yourbasic/bit"
	"gp-miner/gradual_pattern/conf/mine"
	"gp-miner/gradual_pattern/support"
	"gp-miner/rock-share/global/enum"
	"gp-miner/rock-share/global/model/gp"
)

// AntColony 蚁群搜索
// 启发信息 d[i][j] 为两个梯度项同时成立的行对占比，低于 min_support 的置0
// 每只蚂蚁在每一行按 τ^α·d^β 选一个梯度项，组成候选模式
type AntColony struct {
	cfg mine.Config
}

func NewAntColony(cfg mine.Config) *AntColony {
	return &AntColony{cfg: cfg}
}

func (a *AntColony) Name() enum.Strategy {
	return enum.AntColony
}

func (a *AntColony) Run(ctx context.Context, space *Space) (*Outcome, error) {
	st, err := newAcoState(space, a.cfg)
	if err != nil {
		return nil, err
	}
	return space.drive(ctx, a.Name(), st)
}

// tauMin 信息素下限，避免多轮挥发后整行为0
const tauMin = 1e-6

type acoState struct {
	space *Space
	cfg   mine.Config
	d     [][]float64
	tau   [][]float64
}

func newAcoState(space *Space, cfg mine.Config) (*acoState, error) {
	m := space.Len()
	engine := space.sess.Engine()
	enc := engine.Encoder()
	minPairs := engine.PairsFor(cfg.MinSupport)
	st := &acoState{
		space: space,
		cfg:   cfg,
		d:     make([][]float64, m),
		tau:   make([][]float64, m),
	}
	for i := 0; i < m; i++ {
		st.d[i] = make([]float64, m)
		st.tau[i] = make([]float64, m)
		for j := range st.tau[i] {
			st.tau[i][j] = 1
		}
	}
	for i := 0; i < m; i++ {
		mi, err := enc.Matrix(space.items[i])
		if err != nil {
			return nil, err
		}
		for j := i + 1; j < m; j++ {
			if space.items[i].Attr == space.items[j].Attr {
				continue
			}
			mj, err := enc.Matrix(space.items[j])
			if err != nil {
				return nil, err
			}
			cnt := mi.IntersectCount(mj)
			if cnt < minPairs {
				continue
			}
			st.d[i][j] = engine.Ratio(cnt)
			st.d[j][i] = st.d[i][j]
		}
	}
	return st, nil
}

func (st *acoState) init(ctx context.Context) error {
	return nil
}

func (st *acoState) step(ctx context.Context) (bool, error) {
	ants := make([]*bit.Set, st.cfg.NumAnts)
	for k := range ants {
		ants[k] = st.walk()
	}
	fits, err := st.space.Evaluate(ctx, ants)
	if err != nil {
		return false, err
	}
	st.evaporate()
	for k, c := range ants {
		p, f := st.space.Decode(c), fits[k]
		if p.Size() < 2 {
			continue
		}
		if !support.Qualifies(f, st.cfg.MinSupport) {
			res, ok, err := st.space.Repair(ctx, p)
			if err != nil {
				return false, err
			}
			if !ok {
				continue
			}
			p, f = res.Pattern, res.Support
		}
		st.deposit(p, f)
	}
	return true, nil
}

// walk 一只蚂蚁在每一行按概率选一个梯度项
func (st *acoState) walk() *bit.Set {
	c := new(bit.Set)
	m := len(st.d)
	weights := make([]float64, m)
	rng := st.space.rng
	for i := 0; i < m; i++ {
		total := 0.0
		last := -1
		for j := 0; j < m; j++ {
			weights[j] = 0
			if st.d[i][j] <= 0 {
				continue
			}
			weights[j] = math.Pow(st.tau[i][j], st.cfg.Alpha) * math.Pow(st.d[i][j], st.cfg.Beta)
			total += weights[j]
			last = j
		}
		if total <= 0 {
			continue
		}
		r := rng.Float64() * total
		pick := last
		for j, w := range weights {
			if w <= 0 {
				continue
			}
			r -= w
			if r < 0 {
				pick = j
				break
			}
		}
		c.Add(pick)
	}
	return c
}

func (st *acoState) evaporate() {
	keep := 1 - st.cfg.EvaporationRate
	for i := range st.tau {
		for j := range st.tau[i] {
			st.tau[i][j] = math.Max(st.tau[i][j]*keep, tauMin)
		}
	}
}

// deposit 模式中每一对梯度项的信息素加上它的支持度
func (st *acoState) deposit(p gp.Pattern, f float64) {
	idx := make([]int, 0, p.Size())
	for _, gi := range p.Items() {
		if i, ok := st.space.index[gi]; ok {
			idx = append(idx, i)
		}
	}
	for a := 0; a < len(idx); a++ {
		for b := a + 1; b < len(idx); b++ {
			st.tau[idx[a]][idx[b]] += f
			st.tau[idx[b]][idx[a]] += f
		}
	}
}
