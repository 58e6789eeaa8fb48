package swarm

import (
	"context"
	"sort"

	"github.com/yourbasic/bit"
	"gp-miner/gradual_pattern/conf/mine"
	"gp-miner/rock-share/global/enum"
)

// Genetic 遗传搜索：锦标赛选择、均匀交叉、按位变异，保留 elite_count 个精英
type Genetic struct {
	cfg mine.Config
}

func NewGenetic(cfg mine.Config) *Genetic {
	return &Genetic{cfg: cfg}
}

func (g *Genetic) Name() enum.Strategy {
	return enum.Genetic
}

func (g *Genetic) Run(ctx context.Context, space *Space) (*Outcome, error) {
	return space.drive(ctx, g.Name(), &geneticState{space: space, cfg: g.cfg})
}

type geneticState struct {
	space *Space
	cfg   mine.Config
	pop   []*bit.Set
	fit   []float64
}

func (st *geneticState) init(ctx context.Context) error {
	st.pop = make([]*bit.Set, st.cfg.PopulationSize)
	for i := range st.pop {
		st.pop[i] = st.space.randomCandidate(st.space.rng)
	}
	fits, err := st.space.Evaluate(ctx, st.pop)
	if err != nil {
		return err
	}
	st.fit = fits
	return nil
}

func (st *geneticState) step(ctx context.Context) (bool, error) {
	order := make([]int, len(st.pop))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return st.fit[order[a]] > st.fit[order[b]]
	})

	size := st.cfg.PopulationSize
	next := make([]*bit.Set, 0, size)
	nextFit := make([]float64, 0, size)
	for e := 0; e < st.cfg.EliteCount && e < len(order); e++ {
		next = append(next, clone(st.pop[order[e]]))
		nextFit = append(nextFit, st.fit[order[e]])
	}

	children := make([]*bit.Set, 0, size-len(next))
	for len(next)+len(children) < size {
		p1, p2 := st.tournament(), st.tournament()
		var child *bit.Set
		if st.space.rng.Float64() < st.cfg.CrossoverRate {
			child = st.crossover(p1, p2)
		} else {
			child = clone(p1)
		}
		st.mutate(child)
		children = append(children, child)
	}
	fits, err := st.space.Evaluate(ctx, children)
	if err != nil {
		return false, err
	}
	st.pop = append(next, children...)
	st.fit = append(nextFit, fits...)
	return true, nil
}

// tournament 随机取 tournament_size 个个体，返回适应度最高的
func (st *geneticState) tournament() *bit.Set {
	rng := st.space.rng
	best := rng.Intn(len(st.pop))
	for k := 1; k < st.cfg.TournamentSize; k++ {
		i := rng.Intn(len(st.pop))
		if st.fit[i] > st.fit[best] {
			best = i
		}
	}
	return st.pop[best]
}

// crossover 均匀交叉，每一位等概率来自任一父代
func (st *geneticState) crossover(p1, p2 *bit.Set) *bit.Set {
	child := new(bit.Set)
	for i := 0; i < st.space.Len(); i++ {
		from := p1
		if st.space.rng.Float64() < 0.5 {
			from = p2
		}
		if from.Contains(i) {
			child.Add(i)
		}
	}
	return child
}

func (st *geneticState) mutate(c *bit.Set) {
	for i := 0; i < st.space.Len(); i++ {
		if st.space.rng.Float64() >= st.cfg.MutationRate {
			continue
		}
		if c.Contains(i) {
			c.Delete(i)
		} else {
			c.Add(i)
		}
	}
}
