package swarm

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/yourbasic/bit"
	"gp-miner/gradual_pattern/conf/mine"
	"gp-miner/gradual_pattern/format"
	"gp-miner/gradual_pattern/gptest"
	"gp-miner/gradual_pattern/graank"
	"gp-miner/gradual_pattern/rank"
	"gp-miner/gradual_pattern/support"
	"gp-miner/rock-share/global/enum"
	"gp-miner/rock-share/global/model/gp"
	"gp-miner/utils"
)

func newSession(ds *format.Dataset) *support.Session {
	enc, err := rank.NewEncoder(ds)
	So(err, ShouldBeNil)
	return support.NewEngine(enc).NewSession()
}

func testConfig(minSupport float64) mine.Config {
	cfg := mine.Default()
	cfg.MinSupport = minSupport
	cfg.Workers = 2
	return cfg
}

func signatures(results []gp.Result) []string {
	res := make([]string, len(results))
	for i, r := range results {
		res[i] = r.Pattern.Signature()
	}
	return res
}

func TestSpace(t *testing.T) {
	ctx := context.Background()

	Convey("搜索空间", t, func() {
		sess := newSession(gptest.SalaryDataset())
		space, err := NewSpace(ctx, sess, testConfig(0.7))
		So(err, ShouldBeNil)
		So(space.Len(), ShouldEqual, 6)

		Convey("同一列只取第一个梯度项", func() {
			p := space.Decode(bit.New(0, 1, 3))
			So(p.Signature(), ShouldEqual, "0+,1-")
			So(space.Encode(p).Equal(bit.New(0, 3)), ShouldBeTrue)
			So(space.Decode(new(bit.Set)).IsEmpty(), ShouldBeTrue)
		})

		Convey("长度不足的候选适应度为0", func() {
			fits, err := space.Evaluate(ctx, []*bit.Set{bit.New(0), bit.New(0, 1)})
			So(err, ShouldBeNil)
			So(fits, ShouldResemble, []float64{0, 0})
			So(space.invalid, ShouldEqual, 2)
			So(space.Evaluations(), ShouldEqual, 0)
		})

		Convey("适应度即支持度，重复的候选只算一次", func() {
			fits, err := space.Evaluate(ctx, []*bit.Set{bit.New(0, 3), bit.New(1, 2), bit.New(0, 3)})
			So(err, ShouldBeNil)
			So(fits[0], ShouldEqual, 0.8)
			So(fits[1], ShouldEqual, 0.8) // 逆模式
			So(fits[2], ShouldEqual, 0.8)
			So(space.Evaluations(), ShouldEqual, 1)
			best, ok := space.Best()
			So(ok, ShouldBeTrue)
			So(best.Pattern.Signature(), ShouldEqual, "0+,1-")
		})

		Convey("已知败者的超集不再计算", func() {
			low, err := space.score(ctx, []gp.Pattern{gp.MustPattern(gp.Inc(0), gp.Inc(2))})
			So(err, ShouldBeNil)
			So(low[0], ShouldAlmostEqual, 0.6, 1e-12)
			So(space.Evaluations(), ShouldEqual, 1)

			fits, err := space.score(ctx, []gp.Pattern{gp.MustPattern(gp.Dec(0), gp.Inc(1), gp.Dec(2))})
			So(err, ShouldBeNil)
			So(fits[0], ShouldEqual, 0)
			So(space.pruned, ShouldEqual, 1)
			So(space.Evaluations(), ShouldEqual, 1)
		})

		Convey("贪心修复", func() {
			res, ok, err := space.Repair(ctx, gp.MustPattern(gp.Inc(0), gp.Dec(1), gp.Inc(2)))
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(res.Pattern.Signature(), ShouldEqual, "0+,1-")
			So(res.Support, ShouldEqual, 0.8)

			_, ok, err = space.Repair(ctx, gp.MustPattern(gp.Inc(0), gp.Inc(2)))
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("爬山邻域", func() {
			st := &hillState{space: space, cfg: testConfig(0.7), current: bit.New(0, 3)}
			var got []string
			for _, c := range st.neighbors() {
				got = append(got, space.Decode(c).Signature())
			}
			So(got, ShouldResemble, []string{"0-,1-", "0+,1+", "0+,1-,2+", "0+,1-,2-"})
		})
	})
}

func TestStrategies(t *testing.T) {
	ctx := context.Background()

	Convey("与穷举搜索的最优解相差不大", t, func() {
		ds := gptest.DominantDataset()
		cfg := testConfig(0.5)
		cfg.PopulationSize, cfg.SwarmSize, cfg.NumAnts = 20, 20, 20
		exact, err := graank.Mine(ctx, newSession(ds), nil, graank.FromMine(cfg))
		So(err, ShouldBeNil)
		optimum := exact.Patterns[0].Support
		So(optimum, ShouldEqual, 1.0)

		for _, name := range enum.Metaheuristics {
			sess := newSession(ds)
			out, err := Run(ctx, sess, name, cfg)
			So(err, ShouldBeNil)
			So(out.Strategy, ShouldEqual, name)
			So(out.BelowThreshold, ShouldBeFalse)
			So(out.Best.Support, ShouldBeGreaterThanOrEqualTo, optimum-0.25)
			So(out.Found, ShouldBeGreaterThan, 0)
			So(len(out.Patterns), ShouldBeLessThanOrEqualTo, cfg.TopK)
			So(out.Iterations, ShouldBeLessThanOrEqualTo, cfg.MaxIterations)
			for _, r := range out.Patterns {
				So(r.Pattern.IsCanonical(), ShouldBeTrue)
				So(r.Pattern.Size(), ShouldBeGreaterThanOrEqualTo, 2)
				s, err := sess.Engine().Evaluate(r.Pattern)
				So(err, ShouldBeNil)
				So(r.Support, ShouldEqual, s)
				So(support.Qualifies(r.Support, cfg.MinSupport), ShouldBeTrue)
			}
		}
	})

	Convey("同一种子结果相同", t, func() {
		for _, name := range enum.Metaheuristics {
			cfg := testConfig(0.5)
			cfg.RandomSeed = 42
			first, err := Run(ctx, newSession(gptest.DominantDataset()), name, cfg)
			So(err, ShouldBeNil)
			again, err := Run(ctx, newSession(gptest.DominantDataset()), name, cfg)
			So(err, ShouldBeNil)
			So(again.Best.Pattern.Signature(), ShouldEqual, first.Best.Pattern.Signature())
			So(signatures(again.Patterns), ShouldResemble, signatures(first.Patterns))
			So(again.Evaluations, ShouldEqual, first.Evaluations)
			So(again.Iterations, ShouldEqual, first.Iterations)
		}
	})

	Convey("评估次数预算", t, func() {
		cfg := testConfig(0.5)
		cfg.MaxEvaluations = 3
		cfg.Patience = 0
		out, err := Run(ctx, newSession(gptest.DominantDataset()), enum.RandomSearch, cfg)
		So(err, ShouldBeNil)
		So(out.Evaluations, ShouldBeLessThanOrEqualTo, 3)
		So(out.StopReason, ShouldEqual, enum.StopBudget)
	})

	Convey("取消后返回且不报错", t, func() {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		for _, name := range enum.Metaheuristics {
			out, err := Run(cancelled, newSession(gptest.DominantDataset()), name, testConfig(0.5))
			So(err, ShouldBeNil)
			So(out.StopReason, ShouldEqual, enum.StopCancelled)
			So(out.Iterations, ShouldEqual, 0)
			So(out.Evaluations, ShouldEqual, 0)
		}
	})

	Convey("阈值过高时返回低于阈值的最优解", t, func() {
		out, err := Run(ctx, newSession(gptest.SalaryDataset()), enum.Genetic, testConfig(0.9))
		So(err, ShouldBeNil)
		So(out.BelowThreshold, ShouldBeTrue)
		So(out.Found, ShouldEqual, 0)
		So(out.Best.Support, ShouldBeLessThan, 0.9)
		So(out.Patterns, ShouldBeEmpty)
	})

	Convey("合法梯度项不足", t, func() {
		ds, err := format.NewDataset([]string{"x", "y"}, [][]float64{{1, 2, 3}, {5, 5, 5}})
		So(err, ShouldBeNil)
		out, err := Run(ctx, newSession(ds), enum.AntColony, testConfig(0.5))
		So(err, ShouldBeNil)
		So(out.StopReason, ShouldEqual, enum.StopNoCandidates)
		So(out.BelowThreshold, ShouldBeTrue)
	})

	Convey("非元启发式策略", t, func() {
		_, err := New(enum.Graank, testConfig(0.5))
		So(errors.Is(err, utils.ErrUnknownStrategy), ShouldBeTrue)
	})
}
