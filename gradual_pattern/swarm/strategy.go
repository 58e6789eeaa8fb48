// Package swarm 元启发式搜索：蚁群、遗传、粒子群、随机搜索、爬山
// 不保证找到全局最优，只返回各自迭代中找到的最优解和达标模式
package swarm

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gp-miner/gradual_pattern/conf/mine"
	"gp-miner/gradual_pattern/support"
	"gp-miner/rock-share/global/enum"
	"gp-miner/rock-share/global/model/gp"
	"gp-miner/utils"
)

// Strategy 一种元启发式搜索策略，每次 Run 都使用新的状态
type Strategy interface {
	Name() enum.Strategy
	Run(ctx context.Context, space *Space) (*Outcome, error)
}

// Outcome 一次搜索的结果
type Outcome struct {
	Strategy       enum.Strategy
	Best           gp.Result   // 支持度最高的模式
	BelowThreshold bool        // Best 未达到 min_support
	Found          int         // 达标的不同模式数
	Patterns       []gp.Result // 达标模式的前 top_k 个
	Iterations     int
	Evaluations    int // 实际计算支持度的次数
	InvalidCount   int // 长度不足或低于阈值的候选数
	Pruned         int // 因包含已知低于阈值的模式而跳过计算的候选数
	StopReason     enum.StopReason
	Elapsed        time.Duration
}

func New(name enum.Strategy, cfg mine.Config) (Strategy, error) {
	switch name {
	case enum.AntColony:
		return NewAntColony(cfg), nil
	case enum.Genetic:
		return NewGenetic(cfg), nil
	case enum.ParticleSwarm:
		return NewParticleSwarm(cfg), nil
	case enum.RandomSearch:
		return NewRandom(cfg), nil
	case enum.HillClimbing:
		return NewHillClimbing(cfg), nil
	}
	return nil, errors.Wrapf(utils.ErrUnknownStrategy, "%q is not a metaheuristic", name)
}

// Run 在 sess 上用 name 策略搜索一次
func Run(ctx context.Context, sess *support.Session, name enum.Strategy, cfg mine.Config) (*Outcome, error) {
	st, err := New(name, cfg)
	if err != nil {
		return nil, err
	}
	space, err := NewSpace(ctx, sess, cfg)
	if err != nil {
		return nil, err
	}
	return st.Run(ctx, space)
}
