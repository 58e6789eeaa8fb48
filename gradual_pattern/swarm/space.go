package swarm

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime/debug"
	"time"

	mapset "github.com/deckarep/golang-set"
	"github.com/sourcegraph/conc/pool"
	"github.com/yourbasic/bit"
	"gp-miner/gradual_pattern/conf/mine"
	"gp-miner/gradual_pattern/support"
	"gp-miner/rock-share/base/logger"
	"gp-miner/rock-share/global/enum"
	"gp-miner/rock-share/global/model/gp"
	"gp-miner/utils"
)

// Space 元启发式共用的搜索空间
// 候选解是合法梯度项下标上的位集合，解码时每列只取下标最小的一项
// 一个 Space 只给一次运行的一个策略用，状态更新都在策略的 goroutine 里串行完成
type Space struct {
	sess *support.Session
	cfg  mine.Config
	rng  *rand.Rand

	items     []gp.GradualItem // 单项支持度达到阈值的梯度项，按列号，先+后-
	index     map[gp.GradualItem]int
	attrs     []int         // 至少有一个合法梯度项的列
	attrItems map[int][]int // 列 -> items 下标

	memo       map[string]float64 // 规范签名 -> 适应度
	losers     []gp.Pattern       // 已知低于阈值的模式，它们的超集不用再算
	winnerSet  mapset.Set
	winners    []gp.Result
	best       gp.Result
	hasBest    bool
	evaluated  int
	invalid    int
	pruned     int
	overBudget bool
}

// NewSpace 计算所有单项的支持度，留下达到阈值的作为搜索空间
func NewSpace(ctx context.Context, sess *support.Session, cfg mine.Config) (*Space, error) {
	s := &Space{
		sess:      sess,
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(cfg.RandomSeed)),
		index:     make(map[gp.GradualItem]int),
		attrItems: make(map[int][]int),
		memo:      make(map[string]float64),
		winnerSet: mapset.NewThreadUnsafeSet(),
	}
	for _, gi := range sess.Engine().Encoder().Items() {
		if ctx.Err() != nil {
			break
		}
		r, err := sess.Measure(gp.MustPattern(gi))
		if err != nil {
			return nil, err
		}
		if !support.Qualifies(r.Support, cfg.MinSupport) {
			continue
		}
		if _, ok := s.attrItems[gi.Attr]; !ok {
			s.attrs = append(s.attrs, gi.Attr)
		}
		s.index[gi] = len(s.items)
		s.attrItems[gi.Attr] = append(s.attrItems[gi.Attr], len(s.items))
		s.items = append(s.items, gi)
	}
	logger.Debugf("[Space] valid items:%d, attrs:%d", len(s.items), len(s.attrs))
	return s, nil
}

// Items 合法梯度项，候选位集合的下标即此切片的下标
func (s *Space) Items() []gp.GradualItem {
	return s.items
}

func (s *Space) Len() int {
	return len(s.items)
}

func (s *Space) Session() *support.Session {
	return s.sess
}

// maxSize 候选模式的最大长度
func (s *Space) maxSize() int {
	if s.cfg.MaxPatternSize > 0 && s.cfg.MaxPatternSize < len(s.attrs) {
		return s.cfg.MaxPatternSize
	}
	return len(s.attrs)
}

// Decode 位集合 -> 模式，同一列只保留第一个出现的梯度项
func (s *Space) Decode(c *bit.Set) gp.Pattern {
	used := make(map[int]bool)
	var items []gp.GradualItem
	c.Visit(func(i int) bool {
		if i >= len(s.items) {
			return true
		}
		gi := s.items[i]
		if !used[gi.Attr] {
			used[gi.Attr] = true
			items = append(items, gi)
		}
		return false
	})
	if len(items) == 0 {
		return gp.Pattern{}
	}
	return gp.MustPattern(items...)
}

// Encode 模式 -> 位集合，不在搜索空间里的梯度项被忽略
func (s *Space) Encode(p gp.Pattern) *bit.Set {
	c := new(bit.Set)
	for _, gi := range p.Items() {
		if i, ok := s.index[gi]; ok {
			c.Add(i)
		}
	}
	return c
}

// randomCandidate 随机取 2..maxSize 个不同的列，每列随机一个方向
func (s *Space) randomCandidate(rng *rand.Rand) *bit.Set {
	c := new(bit.Set)
	maxSize := s.maxSize()
	if maxSize < 2 {
		return c
	}
	size := 2 + rng.Intn(maxSize-1)
	for _, k := range rng.Perm(len(s.attrs))[:size] {
		opts := s.attrItems[s.attrs[k]]
		c.Add(opts[rng.Intn(len(opts))])
	}
	return c
}

func clone(c *bit.Set) *bit.Set {
	return new(bit.Set).Set(c)
}

// Evaluate 批量计算候选的适应度，与 cands 一一对应
func (s *Space) Evaluate(ctx context.Context, cands []*bit.Set) ([]float64, error) {
	patterns := make([]gp.Pattern, len(cands))
	for i, c := range cands {
		patterns[i] = s.Decode(c)
	}
	return s.score(ctx, patterns)
}

type job struct {
	pattern gp.Pattern
	key     string
	slots   []int
}

// score 适应度即支持度；长度不合法为0；已知败者的超集直接记0
// 未命中记忆的模式放到协程池里并发计算，超出预算或已取消的不算，适应度为0
func (s *Space) score(ctx context.Context, patterns []gp.Pattern) ([]float64, error) {
	fits := make([]float64, len(patterns))
	pending := make(map[string]*job)
	var jobs []*job
	for i, p := range patterns {
		if p.Size() < 2 || (s.cfg.MaxPatternSize > 0 && p.Size() > s.cfg.MaxPatternSize) {
			s.invalid++
			continue
		}
		p = p.Canonical()
		key := p.Signature()
		if f, ok := s.memo[key]; ok {
			fits[i] = f
			if !support.Qualifies(f, s.cfg.MinSupport) {
				s.invalid++
			}
			continue
		}
		if j, ok := pending[key]; ok {
			j.slots = append(j.slots, i)
			continue
		}
		if s.isLoser(p) {
			s.memo[key] = 0
			s.pruned++
			s.invalid++
			continue
		}
		if ctx.Err() != nil {
			continue
		}
		if len(jobs) >= s.budgetLeft() {
			s.overBudget = true
			continue
		}
		j := &job{pattern: p, key: key, slots: []int{i}}
		pending[key] = j
		jobs = append(jobs, j)
	}
	if len(jobs) == 0 {
		return fits, nil
	}

	results := make([]gp.Result, len(jobs))
	errs := make([]error, len(jobs))
	p := pool.New().WithMaxGoroutines(utils.WorkerNum(s.cfg.Workers))
	for k := range jobs {
		k := k
		p.Go(func() {
			defer func() {
				if err := recover(); err != nil {
					logger.Errorf("recover.err:%v, stack:\n%v", err, string(debug.Stack()))
					errs[k] = fmt.Errorf("evaluate %v panic: %v", jobs[k].pattern, err)
				}
			}()
			results[k], errs[k] = s.sess.Measure(jobs[k].pattern)
		})
	}
	p.Wait()

	for k, j := range jobs {
		if errs[k] != nil {
			return nil, errs[k]
		}
		res := results[k]
		s.evaluated++
		s.memo[j.key] = res.Support
		for _, slot := range j.slots {
			fits[slot] = res.Support
		}
		if !support.Qualifies(res.Support, s.cfg.MinSupport) {
			s.invalid += len(j.slots)
		}
		s.record(res)
	}
	return fits, nil
}

func (s *Space) budgetLeft() int {
	if s.cfg.MaxEvaluations <= 0 {
		return math.MaxInt
	}
	return s.cfg.MaxEvaluations - s.evaluated
}

// isLoser p 或其逆模式包含某个已知低于阈值的模式
func (s *Space) isLoser(p gp.Pattern) bool {
	for _, l := range s.losers {
		if l.IsSubsetOf(p) || l.Inverse().IsSubsetOf(p) {
			return true
		}
	}
	return false
}

// record 更新最优解、达标集合和败者集合，最优解只在输出长度范围内选
func (s *Space) record(res gp.Result) {
	sizeOK := s.cfg.PatternSizeOK(res.Pattern.Size())
	if sizeOK && (!s.hasBest || res.Support > s.best.Support) {
		s.best = res
		s.hasBest = true
	}
	if !support.Qualifies(res.Support, s.cfg.MinSupport) {
		s.losers = append(s.losers, res.Pattern)
		return
	}
	if sizeOK && s.winnerSet.Add(res.Pattern.Signature()) {
		s.winners = append(s.winners, res)
	}
}

// Best 目前为止支持度最高的模式，可能低于阈值
func (s *Space) Best() (gp.Result, bool) {
	return s.best, s.hasBest
}

func (s *Space) bestFitness() float64 {
	if !s.hasBest {
		return -1
	}
	return s.best.Support
}

// Evaluations 本空间内实际调用支持度计算的次数
func (s *Space) Evaluations() int {
	return s.evaluated
}

// Repair 从 p 的第一项开始，依次尝试加入后面的项，只保留加入后仍达到阈值的
// 得到长度>=2的达标子模式时返回 true
func (s *Space) Repair(ctx context.Context, p gp.Pattern) (gp.Result, bool, error) {
	if p.Size() < 2 {
		return gp.Result{}, false, nil
	}
	cur := gp.MustPattern(p.Item(0))
	curSupport := 0.0
	for _, gi := range p.Items()[1:] {
		cand, ok := cur.Extend(gi)
		if !ok {
			continue
		}
		fits, err := s.score(ctx, []gp.Pattern{cand})
		if err != nil {
			return gp.Result{}, false, err
		}
		if support.Qualifies(fits[0], s.cfg.MinSupport) {
			cur, curSupport = cand, fits[0]
		}
	}
	if cur.Size() < 2 {
		return gp.Result{}, false, nil
	}
	return gp.Result{Pattern: cur.Canonical(), Support: curSupport}, true, nil
}

// stepper 各策略的状态，init 生成初始解，step 完成一轮迭代
// step 返回 false 表示搜索已无法继续
type stepper interface {
	init(ctx context.Context) error
	step(ctx context.Context) (bool, error)
}

const improveEpsilon = 1e-12

// drive 各策略共用的主循环
// 超过 max_iterations、连续 patience 轮没有提升、预算用完或 ctx 结束时停止，均返回目前为止的最优解
func (s *Space) drive(ctx context.Context, name enum.Strategy, st stepper) (*Outcome, error) {
	start := time.Now()
	if ctx.Err() != nil {
		return s.outcome(name, enum.StopCancelled, 0, start), nil
	}
	if len(s.attrs) < 2 || s.maxSize() < 2 {
		logger.Infof("[%s] 合法梯度项不足，attrs:%d", name, len(s.attrs))
		return s.outcome(name, enum.StopNoCandidates, 0, start), nil
	}
	if err := st.init(ctx); err != nil {
		return nil, err
	}

	reason := enum.StopMaxIterations
	iterations, stale := 0, 0
	for iterations < s.cfg.MaxIterations {
		if ctx.Err() != nil {
			reason = enum.StopCancelled
			break
		}
		if s.overBudget {
			reason = enum.StopBudget
			break
		}
		before := s.bestFitness()
		more, err := st.step(ctx)
		if err != nil {
			return nil, err
		}
		iterations++
		if !more {
			reason = enum.StopConverged
			break
		}
		if s.bestFitness() > before+improveEpsilon {
			stale = 0
		} else {
			stale++
		}
		if s.cfg.Patience > 0 && stale >= s.cfg.Patience {
			reason = enum.StopConverged
			break
		}
	}
	if reason == enum.StopMaxIterations {
		if ctx.Err() != nil {
			reason = enum.StopCancelled
		} else if s.overBudget {
			reason = enum.StopBudget
		}
	}

	if s.hasBest && !support.Qualifies(s.best.Support, s.cfg.MinSupport) {
		if res, ok, err := s.Repair(ctx, s.best.Pattern); err != nil {
			return nil, err
		} else if ok {
			logger.Debugf("[%s] 最优解 %v 低于阈值，修复为 %v", name, s.best.Pattern, res.Pattern)
		}
	}
	out := s.outcome(name, reason, iterations, start)
	logger.Infof("[%s] stop:%s, iterations:%d, evaluations:%d, best:%v(%.4f), found:%d",
		name, reason, iterations, out.Evaluations, out.Best.Pattern, out.Best.Support, out.Found)
	return out, nil
}

func (s *Space) outcome(name enum.Strategy, reason enum.StopReason, iterations int, start time.Time) *Outcome {
	winners := make([]gp.Result, len(s.winners))
	copy(winners, s.winners)
	gp.SortResults(winners)
	found := len(winners)
	if s.cfg.TopK > 0 && len(winners) > s.cfg.TopK {
		winners = winners[:s.cfg.TopK]
	}
	best := s.best
	// 修复出的达标模式可能比低于阈值的原最优解更有用
	if (!s.hasBest || !support.Qualifies(best.Support, s.cfg.MinSupport)) && found > 0 {
		best = winners[0]
	}
	return &Outcome{
		Strategy:       name,
		Best:           best,
		BelowThreshold: !support.Qualifies(best.Support, s.cfg.MinSupport) || best.Pattern.IsEmpty(),
		Found:          found,
		Patterns:       winners,
		Iterations:     iterations,
		Evaluations:    s.evaluated,
		InvalidCount:   s.invalid,
		Pruned:         s.pruned,
		StopReason:     reason,
		Elapsed:        time.Since(start),
	}
}
