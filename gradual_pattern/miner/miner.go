// Package miner 一次挖掘任务的入口：校验参数、构建秩矩阵、按策略分发、汇总到模式库
package miner

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sourcegraph/conc/pool"
	"gp-miner/gradual_pattern/cluster"
	"gp-miner/gradual_pattern/conf/mine"
	"gp-miner/gradual_pattern/format"
	"gp-miner/gradual_pattern/graank"
	"gp-miner/gradual_pattern/rank"
	"gp-miner/gradual_pattern/report"
	"gp-miner/gradual_pattern/repository"
	"gp-miner/gradual_pattern/support"
	"gp-miner/gradual_pattern/swarm"
	"gp-miner/rock-share/base/logger"
	"gp-miner/rock-share/global/enum"
	"gp-miner/rock-share/global/model/gp"
	"gp-miner/utils"
)

// Mine 按 cfg.Strategy 挖掘一次
func Mine(ctx context.Context, ds *format.Dataset, cfg mine.Config) (*report.Output, error) {
	return Compare(ctx, ds, cfg)
}

// Compare 多个策略在各自的会话上并发运行，结果汇总到同一个模式库
// strategies 为空时使用 cfg.Strategy
func Compare(ctx context.Context, ds *format.Dataset, cfg mine.Config, strategies ...enum.Strategy) (*report.Output, error) {
	if ds == nil {
		return nil, errors.Wrap(utils.ErrInvalidDataset, "nil dataset")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(strategies) == 0 {
		strategies = []enum.Strategy{cfg.StrategyName()}
	}
	// 别名、大小写统一成规范名后再去重
	parsed := make([]enum.Strategy, len(strategies))
	for i, s := range strategies {
		st, ok := enum.ParseStrategy(string(s))
		if !ok {
			return nil, errors.Wrapf(utils.ErrUnknownStrategy, "%q", s)
		}
		parsed[i] = st
	}
	strategies = utils.Distinct(parsed)
	names := make([]string, len(strategies))
	for i, s := range strategies {
		names[i] = string(s)
	}
	if cfg.TimeBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.TimeBudget)
		defer cancel()
	}

	runID := uuid.New().String()
	logger.Infof("[miner] run %s start, strategies:%v, rows:%d, attrs:%d, min_support:%v",
		runID, names, ds.Rows(), ds.Attributes(), cfg.MinSupport)
	enc, err := rank.NewEncoder(ds)
	if err != nil {
		return nil, err
	}
	// 超时后矩阵在用到时再懒构建
	if err := enc.Warm(ctx, cfg.Workers); err != nil && ctx.Err() == nil {
		return nil, err
	}
	engine := support.NewEngine(enc)
	repo := repository.New(cfg.MinSupport, repository.WithMinSize(cfg.MinPatternSize))

	runs := make([]report.Meta, len(strategies))
	p := pool.New().WithErrors()
	for i := range strategies {
		i := i
		p.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Errorf("recover.err:%v, stack:\n%v", r, string(debug.Stack()))
					err = fmt.Errorf("strategy %s panic: %v", strategies[i], r)
				}
			}()
			runs[i], err = run(ctx, engine, strategies[i], cfg, repo)
			return err
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	patterns := repo.Export()
	if cfg.MaximalOnly {
		patterns = repo.Maximal()
	}
	out := &report.Output{
		RunID:      runID,
		Strategy:   strings.Join(names, ","),
		MinSupport: cfg.MinSupport,
		Rows:       ds.Rows(),
		Attributes: ds.Attributes(),
		Patterns:   report.NewRows(patterns, ds.Names()),
		Runs:       runs,
	}
	logger.Infof("[miner] run %s finish, patterns:%d", runID, len(out.Patterns))
	return out, nil
}

// run 单个策略，结果写入 repo
func run(ctx context.Context, engine *support.Engine, name enum.Strategy, cfg mine.Config, repo *repository.Repository) (report.Meta, error) {
	start := time.Now()
	sess := engine.NewSession(support.WithCacheSize(cfg.CacheSize))
	defer sess.Purge()
	names := engine.Encoder().Dataset().Names()
	meta := report.Meta{Strategy: string(name)}

	switch name {
	case enum.Graank:
		res, err := graank.Mine(ctx, sess, nil, graank.FromMine(cfg))
		if err != nil {
			return meta, err
		}
		repo.OfferAll(res.Patterns)
		meta.Iterations = res.Levels
		meta.Candidates = res.Candidates
		meta.Pruned = res.Pruned
		meta.StopReason = string(res.StopReason)
		fillFound(&meta, res.Patterns, names)
	case enum.Cluster:
		res, err := cluster.Mine(ctx, sess, cfg)
		if err != nil {
			return meta, err
		}
		repo.OfferAll(res.Patterns)
		meta.Candidates = res.Candidates
		meta.StopReason = string(res.StopReason)
		if res.Clusters != nil {
			for _, group := range res.Clusters.Groups {
				g := make([]string, len(group))
				for i, attr := range group {
					g[i] = names[attr]
				}
				meta.Clusters = append(meta.Clusters, g)
			}
		}
		fillFound(&meta, res.Patterns, names)
	default:
		out, err := swarm.Run(ctx, sess, name, cfg)
		if err != nil {
			return meta, err
		}
		repo.OfferAll(out.Patterns)
		meta.Iterations = out.Iterations
		meta.InvalidCount = out.InvalidCount
		meta.Pruned = out.Pruned
		meta.Found = out.Found
		meta.StopReason = string(out.StopReason)
		meta.BelowThreshold = out.BelowThreshold
		if !out.Best.Pattern.IsEmpty() {
			best := report.NewRow(out.Best, names)
			meta.Best = &best
		}
	}
	meta.Evaluations = sess.Evaluations()
	meta.Elapsed = report.FormatElapsed(time.Since(start))
	logger.Infof("[miner] %s done, found:%d, evaluations:%d, cache hits:%d, stop:%s, elapsed:%s",
		name, meta.Found, meta.Evaluations, sess.CacheHits(), meta.StopReason, meta.Elapsed)
	return meta, nil
}

// fillFound 穷举类策略的结果统计
func fillFound(meta *report.Meta, patterns []gp.Result, names []string) {
	meta.Found = len(patterns)
	meta.BelowThreshold = len(patterns) == 0
	if len(patterns) > 0 {
		best := report.NewRow(patterns[0], names)
		meta.Best = &best
	}
}
