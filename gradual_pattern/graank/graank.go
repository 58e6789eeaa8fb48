package graank

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set"
	"gp-miner/gradual_pattern/conf/mine"
	"gp-miner/gradual_pattern/support"
	"gp-miner/rock-share/base/logger"
	"gp-miner/rock-share/global/enum"
	"gp-miner/rock-share/global/model/gp"
	"gp-miner/utils"
)

// Config 逐层搜索的参数
type Config struct {
	MinSupport     float64
	MinPatternSize int
	MaxPatternSize int // 0 不限制
	MaximalOnly    bool
	Workers        int
}

func FromMine(c mine.Config) Config {
	return Config{
		MinSupport:     c.MinSupport,
		MinPatternSize: c.MinPatternSize,
		MaxPatternSize: c.MaxPatternSize,
		MaximalOnly:    c.MaximalOnly,
		Workers:        c.Workers,
	}
}

// Result 逐层搜索的结果
type Result struct {
	Patterns   []gp.Result
	Levels     int // 实际展开到第几层
	Candidates int // 计算过支持度的候选数
	Pruned     int // 因子集不频繁被剪掉的候选数
	StopReason enum.StopReason
	Elapsed    time.Duration
}

// Truncated 是否因为取消提前结束
func (r *Result) Truncated() bool {
	return r.StopReason == enum.StopCancelled
}

// node 某一层的一个频繁模式(规范形式)
type node struct {
	in      *support.Intersection
	support float64
}

// candidate 下一层的候选：parent 的交集再与 item 求交
type candidate struct {
	parent *node
	item   gp.GradualItem
}

// Mine 逐层搜索 attrs 上的全部频繁梯度模式，attrs 为空时用所有列
// 第1层是所有单项；第2层两两组合；第k层由共享前k-2项的两个(k-1)模式连接，
// 再要求所有(k-1)子集都频繁。模式和逆模式支持度相同，只保留首项为+的规范形式
func Mine(ctx context.Context, sess *support.Session, attrs []int, cfg Config) (*Result, error) {
	start := time.Now()
	enc := sess.Engine().Encoder()
	if len(attrs) == 0 {
		attrs = make([]int, enc.Attributes())
		for i := range attrs {
			attrs[i] = i
		}
	}
	attrs = utils.Distinct(attrs)
	sort.Ints(attrs)

	res := &Result{StopReason: enum.StopExhausted}
	var found []gp.Result

	// 第1层
	level := make([]*node, 0, 2*len(attrs))
	for _, attr := range attrs {
		for _, gi := range []gp.GradualItem{gp.Inc(attr), gp.Dec(attr)} {
			p := gp.MustPattern(gi)
			r, err := sess.Measure(p)
			if err != nil {
				return nil, err
			}
			res.Candidates++
			if !support.Qualifies(r.Support, cfg.MinSupport) {
				continue
			}
			in, err := sess.Intersect(p)
			if err != nil {
				return nil, err
			}
			level = append(level, &node{in: in, support: r.Support})
			if gi.Dir == gp.Increasing && sizeOK(cfg, 1) {
				found = append(found, r)
			}
		}
	}
	res.Levels = 1
	logger.Infof("[graank] level 1, attrs:%d, frequent items:%d", len(attrs), len(level))

	for k := 2; len(level) > 1; k++ {
		if cfg.MaxPatternSize > 0 && k > cfg.MaxPatternSize {
			break
		}
		if ctx.Err() != nil {
			res.StopReason = enum.StopCancelled
			logger.Infof("[graank] 收到停止信号，停在第%d层", k)
			break
		}
		cands, pruned := join(level, k)
		res.Pruned += pruned
		if len(cands) == 0 {
			break
		}
		ins, err := evaluate(ctx, sess, cands, cfg.Workers)
		if err != nil {
			return nil, err
		}
		if ctx.Err() != nil {
			// 这一层没算完，不能保证完整，丢掉
			res.StopReason = enum.StopCancelled
			logger.Infof("[graank] 收到停止信号，丢弃第%d层", k)
			break
		}
		res.Candidates += len(cands)

		next := make([]*node, 0, len(ins))
		for _, in := range ins {
			s := sess.Support(in)
			if !support.Qualifies(s, cfg.MinSupport) {
				continue
			}
			next = append(next, &node{in: in, support: s})
			if sizeOK(cfg, k) {
				found = append(found, gp.Result{Pattern: in.Pattern, Support: s, Pairs: in.Count})
			}
		}
		sort.SliceStable(next, func(i, j int) bool {
			return gp.Compare(next[i].in.Pattern, next[j].in.Pattern) < 0
		})
		res.Levels = k
		logger.Infof("[graank] level %d, candidates:%d, pruned:%d, frequent:%d", k, len(cands), pruned, len(next))
		level = next
	}

	if cfg.MaximalOnly {
		found = gp.Maximal(found)
	}
	gp.SortResults(found)
	res.Patterns = found
	res.Elapsed = time.Since(start)
	return res, nil
}

func sizeOK(cfg Config, size int) bool {
	if size < cfg.MinPatternSize {
		return false
	}
	return cfg.MaxPatternSize == 0 || size <= cfg.MaxPatternSize
}

// join 由第k-1层生成第k层候选，返回候选和被剪掉的个数
func join(level []*node, k int) ([]candidate, int) {
	var cands []candidate
	pruned := 0
	if k == 2 {
		// 单项两两组合，列不同且低列为+(规范形式)
		for i, a := range level {
			ai := a.in.Pattern.Item(0)
			if ai.Dir != gp.Increasing {
				continue
			}
			for _, b := range level[i+1:] {
				bi := b.in.Pattern.Item(0)
				if bi.Attr == ai.Attr {
					continue
				}
				cands = append(cands, candidate{parent: a, item: bi})
			}
		}
		return cands, 0
	}

	frequent := mapset.NewThreadUnsafeSet()
	for _, n := range level {
		frequent.Add(n.in.Pattern.Signature())
	}
	for i, a := range level {
		pa := a.in.Pattern
		prefix := pa.Prefix(k - 2).Signature()
		for _, b := range level[i+1:] {
			pb := b.in.Pattern
			if pb.Prefix(k-2).Signature() != prefix {
				break // 按字典序排好了，前缀不同后面都不同
			}
			last := pb.Last()
			if pa.Last().Attr == last.Attr {
				continue
			}
			cand, _ := pa.Extend(last)
			if !allSubsetsFrequent(cand, frequent) {
				pruned++
				continue
			}
			cands = append(cands, candidate{parent: a, item: last})
		}
	}
	return cands, pruned
}

// allSubsetsFrequent 去掉任意一项后的(k-1)子集(规范形式)都在上一层中
func allSubsetsFrequent(cand gp.Pattern, frequent mapset.Set) bool {
	// 去掉最后两项之一得到的是两个父模式，不用查
	for d := 0; d < cand.Size()-2; d++ {
		if !frequent.Contains(cand.Without(d).Canonical().Signature()) {
			return false
		}
	}
	return true
}

// evaluate 并发计算一层的候选，结果与候选一一对应
func evaluate(ctx context.Context, sess *support.Session, cands []candidate, workers int) ([]*support.Intersection, error) {
	parNum := utils.WorkerNum(workers)
	ch := make(chan struct{}, parNum)
	ins := make([]*support.Intersection, len(cands))
	errs := make([]error, len(cands))
	var wg sync.WaitGroup
	for i := range cands {
		if ctx.Err() != nil {
			break
		}
		ch <- struct{}{}
		wg.Add(1)
		go func(i int) {
			defer func() {
				if err := recover(); err != nil {
					s := string(debug.Stack())
					logger.Errorf("recover.err:%v, stack:\n%v", err, s)
					errs[i] = fmt.Errorf("evaluate candidate panic: %v", err)
				}
				<-ch
				wg.Done()
			}()
			if ctx.Err() != nil {
				return
			}
			ins[i], errs[i] = sess.Extend(cands[i].parent.in, cands[i].item)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if ctx.Err() != nil {
		return nil, nil
	}
	return ins, nil
}
