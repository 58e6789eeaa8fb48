package miner

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"gp-miner/gradual_pattern/conf/mine"
	"gp-miner/gradual_pattern/gptest"
	"gp-miner/gradual_pattern/report"
	"gp-miner/rock-share/global/enum"
	"gp-miner/utils"
)

func items(rows []report.Row) []string {
	res := make([]string, len(rows))
	for i, r := range rows {
		res[i] = r.String()
	}
	return res
}

func TestMine(t *testing.T) {
	ctx := context.Background()

	Convey("age/salary/cars, min_support=0.7", t, func() {
		cfg := mine.Default()
		cfg.MinSupport = 0.7
		out, err := Mine(ctx, gptest.SalaryDataset(), cfg)
		So(err, ShouldBeNil)
		So(out.RunID, ShouldNotBeEmpty)
		So(out.Strategy, ShouldEqual, "graank")
		So(items(out.Patterns), ShouldResemble, []string{"{age+, salary-}"})
		So(out.Patterns[0].Support, ShouldEqual, 0.8)
		So(len(out.Runs), ShouldEqual, 1)
		So(out.Runs[0].StopReason, ShouldEqual, string(enum.StopExhausted))
		So(out.Runs[0].Found, ShouldEqual, 1)
	})

	Convey("dummy 数据集", t, func() {
		cfg := mine.Default()
		cfg.MinSupport = 0.5
		out, err := Mine(ctx, gptest.DummyDataset(), cfg)
		So(err, ShouldBeNil)
		So(items(out.Patterns), ShouldResemble, []string{
			"{Age+, Expenses-}", "{Age+, Salary+}", "{Salary+, Expenses-}", "{Age+, Salary+, Expenses-}",
		})
		So(out.Patterns[0].Support, ShouldEqual, 1.0)

		cfg.MaximalOnly = true
		out, err = Mine(ctx, gptest.DummyDataset(), cfg)
		So(err, ShouldBeNil)
		So(items(out.Patterns), ShouldResemble, []string{"{Age+, Salary+, Expenses-}"})
	})

	Convey("元启发式策略", t, func() {
		cfg := mine.Default()
		cfg.Strategy = "aco-graank"
		out, err := Mine(ctx, gptest.DominantDataset(), cfg)
		So(err, ShouldBeNil)
		So(out.Strategy, ShouldEqual, "aco")
		So(out.Runs[0].Evaluations, ShouldBeGreaterThan, 0)
		for _, r := range out.Patterns {
			So(r.Support, ShouldBeGreaterThanOrEqualTo, cfg.MinSupport)
			So(len(r.Items), ShouldBeGreaterThanOrEqualTo, 2)
		}
	})

	Convey("聚类策略记录簇", t, func() {
		cfg := mine.Default()
		cfg.Strategy = "cluster"
		cfg.SimilarityThreshold = 0.9
		out, err := Mine(ctx, gptest.TwoClusterDataset(), cfg)
		So(err, ShouldBeNil)
		So(out.Runs[0].Clusters, ShouldResemble, [][]string{{"a", "b"}, {"c", "d"}})
		So(items(out.Patterns), ShouldResemble, []string{"{a+, b+}", "{c+, d+}"})
	})

	Convey("参数错误", t, func() {
		cfg := mine.Default()
		cfg.MinSupport = 1.5
		_, err := Mine(ctx, gptest.SalaryDataset(), cfg)
		So(errors.Is(err, utils.ErrInvalidConfig), ShouldBeTrue)

		cfg = mine.Default()
		cfg.Strategy = "tabu"
		_, err = Mine(ctx, gptest.SalaryDataset(), cfg)
		So(errors.Is(err, utils.ErrUnknownStrategy), ShouldBeTrue)

		_, err = Mine(ctx, nil, mine.Default())
		So(errors.Is(err, utils.ErrInvalidDataset), ShouldBeTrue)
	})

	Convey("超时返回部分结果", t, func() {
		cfg := mine.Default()
		cfg.MinSupport = 0.5
		cfg.TimeBudget = time.Nanosecond
		out, err := Mine(ctx, gptest.DummyDataset(), cfg)
		So(err, ShouldBeNil)
		So(out.Runs[0].StopReason, ShouldEqual, string(enum.StopCancelled))
	})
}

func TestCompare(t *testing.T) {
	Convey("多个策略写入同一个模式库", t, func() {
		cfg := mine.Default()
		cfg.MinSupport = 0.5
		out, err := Compare(context.Background(), gptest.DummyDataset(), cfg,
			enum.Graank, enum.Genetic, enum.HillClimbing, enum.Cluster, enum.Graank)
		So(err, ShouldBeNil)
		So(out.Strategy, ShouldEqual, "graank,ga,hill,cluster")
		So(len(out.Runs), ShouldEqual, 4)
		for i, name := range []string{"graank", "ga", "hill", "cluster"} {
			So(out.Runs[i].Strategy, ShouldEqual, name)
		}
		// 穷举已经找全，其余策略只会命中其中的模式
		So(items(out.Patterns), ShouldResemble, []string{
			"{Age+, Expenses-}", "{Age+, Salary+}", "{Salary+, Expenses-}", "{Age+, Salary+, Expenses-}",
		})
	})
}

func TestCompareAlias(t *testing.T) {
	Convey("策略别名和大小写统一后再分发、去重", t, func() {
		cfg := mine.Default()
		cfg.MinSupport = 0.7
		out, err := Compare(context.Background(), gptest.SalaryDataset(), cfg,
			"aco-graank", "GRAANK", "clu-graank", "hill-climbing", "aco", " Graank ")
		So(err, ShouldBeNil)
		So(out.Strategy, ShouldEqual, "aco,graank,cluster,hill")
		So(len(out.Runs), ShouldEqual, 4)
		So(items(out.Patterns), ShouldResemble, []string{"{age+, salary-}"})
	})
}
