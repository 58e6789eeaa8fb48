package support

import (
	"errors"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"gp-miner/gradual_pattern/format"
	"gp-miner/gradual_pattern/gptest"
	"gp-miner/gradual_pattern/rank"
	"gp-miner/rock-share/global/model/gp"
	"gp-miner/utils"
)

func newEngine(ds *format.Dataset) *Engine {
	enc, err := rank.NewEncoder(ds)
	So(err, ShouldBeNil)
	return NewEngine(enc)
}

// allPatterns 所有至少一项的模式
func allPatterns(attrs int) []gp.Pattern {
	var res []gp.Pattern
	var walk func(attr int, items []gp.GradualItem)
	walk = func(attr int, items []gp.GradualItem) {
		if attr == attrs {
			if len(items) > 0 {
				res = append(res, gp.MustPattern(items...))
			}
			return
		}
		walk(attr+1, items)
		walk(attr+1, append(append([]gp.GradualItem{}, items...), gp.Inc(attr)))
		walk(attr+1, append(append([]gp.GradualItem{}, items...), gp.Dec(attr)))
	}
	walk(0, nil)
	return res
}

func TestEngine(t *testing.T) {
	Convey("支持度公式", t, func() {
		e := newEngine(gptest.SalaryDataset())

		Convey("{age+, salary-} = 36/45 = 0.8", func() {
			res, err := e.Measure(gp.MustPattern(gp.Inc(0), gp.Dec(1)))
			So(err, ShouldBeNil)
			So(res.Pairs, ShouldEqual, 36)
			So(res.Support, ShouldEqual, 0.8)
			So(e.TotalPairs(), ShouldEqual, 45)
		})

		Convey("{age+, cars+} 低于0.7", func() {
			s, err := e.Evaluate(gp.MustPattern(gp.Inc(0), gp.Inc(2)))
			So(err, ShouldBeNil)
			So(s, ShouldAlmostEqual, 0.6, 1e-12)
			So(Qualifies(s, 0.7), ShouldBeFalse)
		})

		Convey("单项支持度 = 严格有序行对占比", func() {
			s, err := e.Evaluate(gp.MustPattern(gp.Inc(2)))
			So(err, ShouldBeNil)
			pairs, _ := e.Encoder().OrderedPairs(2)
			So(s, ShouldEqual, float64(pairs)/45)
			So(s, ShouldAlmostEqual, 42.0/45, 1e-12)
		})

		Convey("空模式报错", func() {
			_, err := e.Evaluate(gp.Pattern{})
			So(errors.Is(err, utils.ErrInvalidPattern), ShouldBeTrue)
		})

		Convey("PairsFor", func() {
			So(e.PairsFor(0.8), ShouldEqual, 36)
			So(e.PairsFor(0.7), ShouldEqual, 32)
		})

		Convey("Pairs 与行对计数一致", func() {
			p := gp.MustPattern(gp.Inc(0), gp.Dec(1))
			pairs, err := e.Pairs(p)
			So(err, ShouldBeNil)
			So(len(pairs), ShouldEqual, 36)
			for _, pair := range pairs {
				So(pair[0], ShouldBeLessThan, pair[1]) // age 递增，i 在 j 之前
			}
		})
	})

	Convey("性质", t, func() {
		e := newEngine(gptest.DummyDataset())
		patterns := allPatterns(4)

		Convey("取值范围、逆模式、幂等", func() {
			for _, p := range patterns {
				s1, err := e.Evaluate(p)
				So(err, ShouldBeNil)
				s2, _ := e.Evaluate(p)
				inv, _ := e.Evaluate(p.Inverse())
				So(s1, ShouldBeBetweenOrEqual, 0, 1)
				So(s1, ShouldEqual, s2)
				So(s1, ShouldEqual, inv)
			}
		})

		Convey("反单调：加一项支持度不增", func() {
			for _, p := range patterns {
				sp, _ := e.Evaluate(p)
				for attr := 0; attr < 4; attr++ {
					for _, gi := range []gp.GradualItem{gp.Inc(attr), gp.Dec(attr)} {
						q, ok := p.Extend(gi)
						if !ok {
							continue
						}
						sq, _ := e.Evaluate(q)
						So(sq, ShouldBeLessThanOrEqualTo, sp)
					}
				}
			}
		})

		Convey("{Age+, Expenses-} = 1", func() {
			s, _ := e.Evaluate(gp.MustPattern(gp.Inc(0), gp.Dec(3)))
			So(s, ShouldEqual, 1.0)
		})
	})
}

func TestSession(t *testing.T) {
	Convey("会话缓存与增量求交", t, func() {
		e := newEngine(gptest.DummyDataset())
		sess := e.NewSession(WithCacheSize(16))

		Convey("与无缓存结果一致", func() {
			for _, p := range allPatterns(4) {
				want, _ := e.Evaluate(p)
				got, err := sess.Evaluate(p)
				So(err, ShouldBeNil)
				So(got, ShouldEqual, want)
			}
			So(sess.Evaluations(), ShouldEqual, int64(len(allPatterns(4))))
		})

		Convey("Extend 复用前缀", func() {
			base, err := sess.Intersect(gp.MustPattern(gp.Inc(0), gp.Inc(1)))
			So(err, ShouldBeNil)
			next, err := sess.Extend(base, gp.Dec(3))
			So(err, ShouldBeNil)
			So(next.Pattern.Signature(), ShouldEqual, "0+,1+,3-")
			want, _ := e.Evaluate(next.Pattern)
			So(sess.Support(next), ShouldEqual, want)
			So(sess.Support(next), ShouldAlmostEqual, 0.6, 1e-12)

			// 再次计算命中缓存
			hits := sess.CacheHits()
			_, err = sess.Measure(next.Pattern)
			So(err, ShouldBeNil)
			So(sess.CacheHits(), ShouldBeGreaterThan, hits)
		})

		Convey("Extend 同列报错", func() {
			base, _ := sess.Intersect(gp.MustPattern(gp.Inc(0)))
			_, err := sess.Extend(base, gp.Dec(0))
			So(errors.Is(err, utils.ErrInvalidPattern), ShouldBeTrue)
		})

		Convey("Extend 不修改秩矩阵", func() {
			base, _ := sess.Intersect(gp.MustPattern(gp.Inc(0)))
			before := base.Count
			_, err := sess.Extend(base, gp.Inc(2))
			So(err, ShouldBeNil)
			again, _ := sess.Intersect(gp.MustPattern(gp.Inc(0)))
			So(again.Count, ShouldEqual, before)
		})

		Convey("并发计算", func() {
			patterns := allPatterns(4)
			results := make([]float64, len(patterns))
			var wg sync.WaitGroup
			for i := range patterns {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					results[i], _ = sess.Evaluate(patterns[i])
				}(i)
			}
			wg.Wait()
			for i, p := range patterns {
				want, _ := e.Evaluate(p)
				So(results[i], ShouldEqual, want)
			}
		})

		Convey("不缓存", func() {
			plain := e.NewSession(WithCacheSize(0))
			s, err := plain.Evaluate(gp.MustPattern(gp.Inc(0), gp.Dec(3)))
			So(err, ShouldBeNil)
			So(s, ShouldEqual, 1.0)
			So(plain.CacheHits(), ShouldEqual, 0)
		})
	})
}
