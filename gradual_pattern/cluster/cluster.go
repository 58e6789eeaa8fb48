// Package cluster 先按相似度把列聚成簇，再在每个簇内逐层搜索
// 跨簇的模式不会被找到，用召回换速度
package cluster

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/awalterschulze/gographviz"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gp-miner/gradual_pattern/conf/mine"
	"gp-miner/gradual_pattern/graank"
	"gp-miner/gradual_pattern/support"
	"gp-miner/rock-share/base/logger"
	"gp-miner/rock-share/global/enum"
	"gp-miner/rock-share/global/model/gp"
	"gp-miner/utils"
)

// Edge 相似度达到阈值的一对列，A < B
type Edge struct {
	A, B       int
	Similarity float64
}

// Clusters 相似度图及其连通分量
type Clusters struct {
	Names     []string
	Groups    [][]int // 每个簇内列号升序，簇之间按首列排序
	Edges     []Edge
	Measure   enum.SimilarityMeasure
	Threshold float64
}

// Group 两两计算相似度，>= threshold 的连边，连通分量即为簇
// attrs 为空时用所有列
func Group(ctx context.Context, sess *support.Session, attrs []int, threshold float64, measure enum.SimilarityMeasure) (*Clusters, error) {
	ds := sess.Engine().Encoder().Dataset()
	if len(attrs) == 0 {
		attrs = make([]int, ds.Attributes())
		for i := range attrs {
			attrs[i] = i
		}
	}
	attrs = utils.Distinct(attrs)
	sort.Ints(attrs)

	g := simple.NewWeightedUndirectedGraph(0, 0)
	for _, attr := range attrs {
		g.AddNode(simple.Node(attr))
	}
	res := &Clusters{Names: ds.Names(), Measure: measure, Threshold: threshold}
	for i, a := range attrs {
		for _, b := range attrs[i+1:] {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			sim, err := Similarity(ctx, sess, a, b, measure)
			if err != nil {
				return nil, err
			}
			logger.Debugf("[cluster] similarity(%s, %s) = %.4f", ds.Name(a), ds.Name(b), sim)
			if !support.Qualifies(sim, threshold) {
				continue
			}
			g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(a), simple.Node(b), sim))
			res.Edges = append(res.Edges, Edge{A: a, B: b, Similarity: sim})
		}
	}

	for _, component := range topo.ConnectedComponents(g) {
		group := make([]int, len(component))
		for i, n := range component {
			group[i] = int(n.ID())
		}
		sort.Ints(group)
		res.Groups = append(res.Groups, group)
	}
	sort.Slice(res.Groups, func(i, j int) bool {
		return res.Groups[i][0] < res.Groups[j][0]
	})
	return res, nil
}

// Dot 相似度图的 graphviz 描述，每个簇一个子图
func (c *Clusters) Dot() (string, error) {
	graphAst, err := gographviz.Parse([]byte(`graph G{}`))
	if err != nil {
		return "", err
	}
	graph := gographviz.NewGraph()
	if err := gographviz.Analyse(graphAst, graph); err != nil {
		return "", err
	}
	for i, group := range c.Groups {
		sub := fmt.Sprintf("cluster_%d", i)
		if err := graph.AddSubGraph("G", sub, map[string]string{"label": fmt.Sprintf(`"cluster %d"`, i)}); err != nil {
			return "", err
		}
		for _, attr := range group {
			if err := graph.AddNode(sub, nodeID(attr), map[string]string{"label": fmt.Sprintf("%q", c.name(attr))}); err != nil {
				return "", err
			}
		}
	}
	for _, e := range c.Edges {
		attrs := map[string]string{"label": fmt.Sprintf(`"%.2f"`, e.Similarity)}
		if err := graph.AddEdge(nodeID(e.A), nodeID(e.B), false, attrs); err != nil {
			return "", err
		}
	}
	return graph.String(), nil
}

func nodeID(attr int) string {
	return fmt.Sprintf("n%d", attr)
}

func (c *Clusters) name(attr int) string {
	if attr >= 0 && attr < len(c.Names) {
		return c.Names[attr]
	}
	return fmt.Sprintf("%d", attr)
}

// Result 聚类搜索的结果
type Result struct {
	Clusters   *Clusters
	Patterns   []gp.Result
	Candidates int
	StopReason enum.StopReason
	Elapsed    time.Duration
}

// Mine 对每个至少两列的簇调用逐层搜索并合并结果
// ctx 结束时返回已完成簇的结果，StopReason 为 cancelled
func Mine(ctx context.Context, sess *support.Session, cfg mine.Config) (*Result, error) {
	start := time.Now()
	res := &Result{StopReason: enum.StopExhausted}
	clusters, err := Group(ctx, sess, nil, cfg.SimilarityThreshold, enum.SimilarityMeasure(cfg.SimilarityMeasure))
	if err != nil {
		if ctx.Err() != nil {
			res.StopReason = enum.StopCancelled
			res.Elapsed = time.Since(start)
			return res, nil
		}
		return nil, err
	}
	res.Clusters = clusters
	logger.Infof("[cluster] measure:%s, threshold:%v, clusters:%v", cfg.SimilarityMeasure, cfg.SimilarityThreshold, clusters.Groups)

	gcfg := graank.FromMine(cfg)
	for _, group := range clusters.Groups {
		if len(group) < 2 {
			continue
		}
		sub, err := graank.Mine(ctx, sess, group, gcfg)
		if err != nil {
			return nil, err
		}
		res.Candidates += sub.Candidates
		res.Patterns = append(res.Patterns, sub.Patterns...)
		if sub.Truncated() {
			res.StopReason = enum.StopCancelled
			break
		}
	}
	gp.SortResults(res.Patterns)
	res.Elapsed = time.Since(start)
	return res, nil
}
