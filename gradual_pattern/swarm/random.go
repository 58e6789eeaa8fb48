package swarm

import (
	"context"

	"github.com/yourbasic/bit"
	"gp-miner/gradual_pattern/conf/mine"
	"gp-miner/rock-share/global/enum"
)

// Random 随机搜索，每轮独立采样 population_size 个候选，只记录最优
type Random struct {
	cfg mine.Config
}

func NewRandom(cfg mine.Config) *Random {
	return &Random{cfg: cfg}
}

func (r *Random) Name() enum.Strategy {
	return enum.RandomSearch
}

func (r *Random) Run(ctx context.Context, space *Space) (*Outcome, error) {
	return space.drive(ctx, r.Name(), &randomState{space: space, cfg: r.cfg})
}

type randomState struct {
	space *Space
	cfg   mine.Config
}

func (st *randomState) init(ctx context.Context) error {
	return nil
}

func (st *randomState) step(ctx context.Context) (bool, error) {
	cands := make([]*bit.Set, st.cfg.PopulationSize)
	for i := range cands {
		cands[i] = st.space.randomCandidate(st.space.rng)
	}
	_, err := st.space.Evaluate(ctx, cands)
	return err == nil, err
}
