package support

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"gp-miner/gradual_pattern/util/bitset"
	"gp-miner/rock-share/base/logger"
	"gp-miner/rock-share/global/model/gp"
	"gp-miner/utils"
)

// Intersection 一个模式的交集矩阵，生成后只读
type Intersection struct {
	Pattern gp.Pattern
	Count   uint64
	bits    *bitset.BitSetBySlice
}

// Session 一次挖掘内的计算上下文：交集缓存和计数
// 缓存随 Session 丢弃，不跨任务共享
type Session struct {
	engine      *Engine
	cache       *lru.Cache // signature -> *Intersection
	evaluations int64
	hits        int64
}

type Option func(*Session)

// WithCacheSize 缓存的交集矩阵个数，<=0 不缓存
func WithCacheSize(size int) Option {
	return func(s *Session) {
		if size <= 0 {
			s.cache = nil
			return
		}
		c, err := lru.New(size)
		if err != nil {
			logger.Warnf("[Session] create lru cache failed, err:%v", err)
			return
		}
		s.cache = c
	}
}

func (e *Engine) NewSession(opts ...Option) *Session {
	s := &Session{engine: e}
	WithCacheSize(defaultCacheSize)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const defaultCacheSize = 256

func (s *Session) Engine() *Engine {
	return s.engine
}

// Evaluations 本次会话中支持度计算的次数
func (s *Session) Evaluations() int64 {
	return atomic.LoadInt64(&s.evaluations)
}

func (s *Session) CacheHits() int64 {
	return atomic.LoadInt64(&s.hits)
}

// Purge 清空缓存
func (s *Session) Purge() {
	if s.cache != nil {
		s.cache.Purge()
	}
}

func (s *Session) Evaluate(p gp.Pattern) (float64, error) {
	res, err := s.Measure(p)
	if err != nil {
		return 0, err
	}
	return res.Support, nil
}

// Measure 计算支持度，长度>=2时走缓存
func (s *Session) Measure(p gp.Pattern) (gp.Result, error) {
	if p.IsEmpty() {
		return gp.Result{}, errors.Wrap(utils.ErrInvalidPattern, "empty pattern")
	}
	atomic.AddInt64(&s.evaluations, 1)
	if p.Size() == 1 || s.cache == nil {
		return s.engine.Measure(p)
	}
	in, err := s.Intersect(p)
	if err != nil {
		return gp.Result{}, err
	}
	return gp.Result{Pattern: p, Support: s.engine.Ratio(in.Count), Pairs: in.Count}, nil
}

// Intersect 求模式的交集矩阵：先找缓存中最长的前缀，再逐项求交
func (s *Session) Intersect(p gp.Pattern) (*Intersection, error) {
	if p.IsEmpty() {
		return nil, errors.Wrap(utils.ErrInvalidPattern, "empty pattern")
	}
	key := p.Signature()
	if in, ok := s.lookup(key); ok {
		return in, nil
	}
	if p.Size() == 1 {
		m, err := s.engine.enc.Matrix(p.Item(0))
		if err != nil {
			return nil, err
		}
		return &Intersection{Pattern: p, Count: m.Count(), bits: m}, nil
	}

	// 从长到短找已缓存的前缀
	var base *bitset.BitSetBySlice
	from := 0
	for k := p.Size() - 1; k >= 2; k-- {
		if in, ok := s.lookup(p.Prefix(k).Signature()); ok {
			base, from = in.bits, k
			break
		}
	}
	bits, err := s.engine.intersectFrom(base, p, from)
	if err != nil {
		return nil, err
	}
	in := &Intersection{Pattern: p, Count: bits.Count(), bits: bits}
	s.store(key, in)
	return in, nil
}

// Extend 在已知 (k-1) 交集上再与一项求交，得到 k 项模式的交集
func (s *Session) Extend(base *Intersection, gi gp.GradualItem) (*Intersection, error) {
	p, ok := base.Pattern.Extend(gi)
	if !ok {
		return nil, errors.Wrapf(utils.ErrInvalidPattern, "%v already has attribute %d", base.Pattern, gi.Attr)
	}
	atomic.AddInt64(&s.evaluations, 1)
	key := p.Signature()
	if in, ok := s.lookup(key); ok {
		return in, nil
	}
	m, err := s.engine.enc.Matrix(gi)
	if err != nil {
		return nil, err
	}
	bits := base.bits.And(m)
	in := &Intersection{Pattern: p, Count: bits.Count(), bits: bits}
	s.store(key, in)
	return in, nil
}

// Support 交集对应的支持度
func (s *Session) Support(in *Intersection) float64 {
	return s.engine.Ratio(in.Count)
}

func (s *Session) lookup(key string) (*Intersection, bool) {
	if s.cache == nil {
		return nil, false
	}
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	atomic.AddInt64(&s.hits, 1)
	return v.(*Intersection), true
}

func (s *Session) store(key string, in *Intersection) {
	if s.cache == nil {
		return
	}
	s.cache.Add(key, in)
}
