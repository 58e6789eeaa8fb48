package gp_config

import "time"

// 挖掘参数默认值，请求和配置文件中没给的用这里的
const (
	Strategy            = "graank"
	MinSupport          = float64(0.5)
	MinPatternSize      = 2
	MaxPatternSize      = 0 // 0 不限制
	MaxIterations       = 100
	MaxEvaluations      = 0 // 0 不限制
	Patience            = 20
	TopK                = 10
	PopulationSize      = 5
	SwarmSize           = 5
	NumAnts             = 5
	EvaporationRate     = float64(0.5)
	Alpha               = float64(1)
	Beta                = float64(1)
	MutationRate        = float64(0.1)
	CrossoverRate       = float64(0.5)
	TournamentSize      = 2
	EliteCount          = 1
	Inertia             = float64(0.9)
	PersonalCoeff       = float64(0.01)
	GlobalCoeff         = float64(0.9)
	Restarts            = 10
	SimilarityThreshold = float64(0.7)
	SimilarityMeasure   = "agreement"
	RandomSeed          = int64(1)
	Workers             = 0 // 0 按cpu核数
	CacheSize           = 256
	TimeBudget          = time.Duration(0)
	MaximalOnly         = false
)
