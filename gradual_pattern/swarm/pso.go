package swarm

import (
	"context"
	"math"

	"github.com/yourbasic/bit"
	"gp-miner/gradual_pattern/conf/mine"
	"gp-miner/rock-share/global/enum"
)

// ParticleSwarm 粒子群搜索
// 位置是 [0,1]^m 的连续向量，分量大于0.5的梯度项被选中
type ParticleSwarm struct {
	cfg mine.Config
}

func NewParticleSwarm(cfg mine.Config) *ParticleSwarm {
	return &ParticleSwarm{cfg: cfg}
}

func (p *ParticleSwarm) Name() enum.Strategy {
	return enum.ParticleSwarm
}

func (p *ParticleSwarm) Run(ctx context.Context, space *Space) (*Outcome, error) {
	return space.drive(ctx, p.Name(), &psoState{space: space, cfg: p.cfg})
}

const (
	selectThreshold = 0.5
	maxVelocity     = 0.5
)

type particle struct {
	x, v    []float64
	best    []float64
	bestFit float64
}

type psoState struct {
	space     *Space
	cfg       mine.Config
	particles []*particle
	gbest     []float64
	gbestFit  float64
}

func binary(x []float64) *bit.Set {
	c := new(bit.Set)
	for i, xi := range x {
		if xi > selectThreshold {
			c.Add(i)
		}
	}
	return c
}

// init 粒子从随机候选出发：选中的分量落在(0.5,1]，其余落在[0,0.5)
func (st *psoState) init(ctx context.Context) error {
	m := st.space.Len()
	rng := st.space.rng
	st.particles = make([]*particle, st.cfg.SwarmSize)
	cands := make([]*bit.Set, st.cfg.SwarmSize)
	for k := range st.particles {
		c := st.space.randomCandidate(rng)
		pt := &particle{x: make([]float64, m), v: make([]float64, m)}
		for i := 0; i < m; i++ {
			if c.Contains(i) {
				pt.x[i] = selectThreshold + (1-rng.Float64())*(1-selectThreshold)
			} else {
				pt.x[i] = rng.Float64() * selectThreshold
			}
		}
		st.particles[k] = pt
		cands[k] = binary(pt.x)
	}
	fits, err := st.space.Evaluate(ctx, cands)
	if err != nil {
		return err
	}
	st.gbestFit = -1
	for k, pt := range st.particles {
		pt.best = append([]float64(nil), pt.x...)
		pt.bestFit = fits[k]
		st.updateGlobal(pt)
	}
	return nil
}

func (st *psoState) updateGlobal(pt *particle) {
	if pt.bestFit > st.gbestFit {
		st.gbestFit = pt.bestFit
		st.gbest = append(st.gbest[:0], pt.best...)
	}
}

// step v = w·v + c1·r1·(pbest-x) + c2·r2·(gbest-x)，速度和位置都截断到范围内
func (st *psoState) step(ctx context.Context) (bool, error) {
	rng := st.space.rng
	cands := make([]*bit.Set, len(st.particles))
	for k, pt := range st.particles {
		for i := range pt.x {
			r1, r2 := rng.Float64(), rng.Float64()
			v := st.cfg.Inertia*pt.v[i] +
				st.cfg.PersonalCoeff*r1*(pt.best[i]-pt.x[i]) +
				st.cfg.GlobalCoeff*r2*(st.gbest[i]-pt.x[i])
			pt.v[i] = math.Max(-maxVelocity, math.Min(maxVelocity, v))
			pt.x[i] = math.Max(0, math.Min(1, pt.x[i]+pt.v[i]))
		}
		cands[k] = binary(pt.x)
	}
	fits, err := st.space.Evaluate(ctx, cands)
	if err != nil {
		return false, err
	}
	for k, pt := range st.particles {
		if fits[k] > pt.bestFit {
			pt.bestFit = fits[k]
			pt.best = append(pt.best[:0], pt.x...)
		}
		st.updateGlobal(pt)
	}
	return true, nil
}
