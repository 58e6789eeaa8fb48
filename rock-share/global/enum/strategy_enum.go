package enum

import "strings"

// Strategy 挖掘策略
type Strategy string

const (
	// Graank 逐层穷举
	Graank Strategy = "graank"
	// AntColony 蚁群
	AntColony Strategy = "aco"
	// Genetic 遗传
	Genetic Strategy = "ga"
	// ParticleSwarm 粒子群
	ParticleSwarm Strategy = "pso"
	// RandomSearch 随机搜索
	RandomSearch Strategy = "random"
	// HillClimbing 爬山(局部搜索)
	HillClimbing Strategy = "hill"
	// Cluster 属性聚类后逐层搜索
	Cluster Strategy = "cluster"
)

// Metaheuristics 五种元启发式策略
var Metaheuristics = []Strategy{AntColony, Genetic, ParticleSwarm, RandomSearch, HillClimbing}

var strategyAlias = map[string]Strategy{
	"graank":        Graank,
	"aco":           AntColony,
	"aco-graank":    AntColony,
	"ant":           AntColony,
	"ga":            Genetic,
	"ga-graank":     Genetic,
	"genetic":       Genetic,
	"pso":           ParticleSwarm,
	"pso-graank":    ParticleSwarm,
	"random":        RandomSearch,
	"rs-graank":     RandomSearch,
	"hill":          HillClimbing,
	"ls-graank":     HillClimbing,
	"hill-climbing": HillClimbing,
	"cluster":       Cluster,
	"clu-graank":    Cluster,
}

// ParseStrategy 大小写不敏感，兼容 xx-graank 的写法
func ParseStrategy(s string) (Strategy, bool) {
	st, ok := strategyAlias[strings.ToLower(strings.TrimSpace(s))]
	return st, ok
}

func (s Strategy) IsMetaheuristic() bool {
	for _, m := range Metaheuristics {
		if m == s {
			return true
		}
	}
	return false
}
