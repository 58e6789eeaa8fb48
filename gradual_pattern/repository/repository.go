package repository

import (
	"sync"

	mapset "github.com/deckarep/golang-set"
	"gp-miner/gradual_pattern/support"
	"gp-miner/rock-share/global/model/gp"
)

// Repository 一次挖掘中找到的模式，按规范签名去重，先到先得，入库后不再修改
// 多个策略并发写入时这里是唯一的串行点
type Repository struct {
	lock       sync.Mutex
	minSupport float64
	minSize    int
	seen       mapset.Set // 规范签名
	entries    []gp.Result
}

type Option func(*Repository)

// WithMinSize 长度小于size的模式不入库
func WithMinSize(size int) Option {
	return func(r *Repository) {
		r.minSize = size
	}
}

func New(minSupport float64, opts ...Option) *Repository {
	r := &Repository{
		minSupport: minSupport,
		minSize:    1,
		seen:       mapset.NewThreadUnsafeSet(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Offer 签名不存在且支持度达到阈值时入库，返回是否入库
func (r *Repository) Offer(p gp.Pattern, s float64) bool {
	return r.OfferResult(gp.Result{Pattern: p, Support: s})
}

func (r *Repository) OfferResult(res gp.Result) bool {
	if res.Pattern.IsEmpty() || res.Pattern.Size() < r.minSize || !support.Qualifies(res.Support, r.minSupport) {
		return false
	}
	res.Pattern = res.Pattern.Canonical()
	key := res.Pattern.Signature()

	r.lock.Lock()
	defer r.lock.Unlock()
	if !r.seen.Add(key) {
		return false
	}
	r.entries = append(r.entries, res)
	return true
}

// OfferAll 返回入库的个数
func (r *Repository) OfferAll(results []gp.Result) int {
	cnt := 0
	for _, res := range results {
		if r.OfferResult(res) {
			cnt++
		}
	}
	return cnt
}

func (r *Repository) Len() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.entries)
}

// Export 支持度降序，长度升序，签名字典序
func (r *Repository) Export() []gp.Result {
	r.lock.Lock()
	res := make([]gp.Result, len(r.entries))
	copy(res, r.entries)
	r.lock.Unlock()
	gp.SortResults(res)
	return res
}

// Maximal 只导出不被其他模式包含的
func (r *Repository) Maximal() []gp.Result {
	return gp.Maximal(r.Export())
}
