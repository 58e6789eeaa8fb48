package mine

import (
	"time"

	"github.com/pkg/errors"
	"gp-miner/gp_config"
	"gp-miner/rock-share/global/enum"
	"gp-miner/utils"
)

// 运算相关的全局参数
var (
	KendallExactBatchSize = 500 // KendallExactBatchSize kendall 每个协程处理的行数
	EncodeCoreNum         = 20  // EncodeCoreNum 构建秩矩阵并行时的最大核数
)

// Config 一次挖掘的全部参数，配置文件、http请求共用
type Config struct {
	Strategy       string  `mapstructure:"strategy" json:"strategy" yaml:"strategy"`
	MinSupport     float64 `mapstructure:"min_support" json:"min_support" yaml:"min_support"`
	MinPatternSize int     `mapstructure:"min_pattern_size" json:"min_pattern_size" yaml:"min_pattern_size"`
	MaxPatternSize int     `mapstructure:"max_pattern_size" json:"max_pattern_size" yaml:"max_pattern_size"`
	MaximalOnly    bool    `mapstructure:"maximal_only" json:"maximal_only" yaml:"maximal_only"`

	// 元启发式通用
	MaxIterations  int           `mapstructure:"max_iterations" json:"max_iterations" yaml:"max_iterations"`
	MaxEvaluations int           `mapstructure:"max_evaluations" json:"max_evaluations" yaml:"max_evaluations"`
	Patience       int           `mapstructure:"patience" json:"patience" yaml:"patience"`
	TopK           int           `mapstructure:"top_k" json:"top_k" yaml:"top_k"`
	RandomSeed     int64         `mapstructure:"random_seed" json:"random_seed" yaml:"random_seed"`
	TimeBudget     time.Duration `mapstructure:"time_budget" json:"time_budget" yaml:"time_budget"`

	// 蚁群
	NumAnts         int     `mapstructure:"num_ants" json:"num_ants" yaml:"num_ants"`
	EvaporationRate float64 `mapstructure:"evaporation_rate" json:"evaporation_rate" yaml:"evaporation_rate"`
	Alpha           float64 `mapstructure:"alpha" json:"alpha" yaml:"alpha"`
	Beta            float64 `mapstructure:"beta" json:"beta" yaml:"beta"`

	// 遗传(随机搜索每轮的采样数也用 PopulationSize)
	PopulationSize int     `mapstructure:"population_size" json:"population_size" yaml:"population_size"`
	MutationRate   float64 `mapstructure:"mutation_rate" json:"mutation_rate" yaml:"mutation_rate"`
	CrossoverRate  float64 `mapstructure:"crossover_rate" json:"crossover_rate" yaml:"crossover_rate"`
	TournamentSize int     `mapstructure:"tournament_size" json:"tournament_size" yaml:"tournament_size"`
	EliteCount     int     `mapstructure:"elite_count" json:"elite_count" yaml:"elite_count"`

	// 粒子群
	SwarmSize     int     `mapstructure:"swarm_size" json:"swarm_size" yaml:"swarm_size"`
	Inertia       float64 `mapstructure:"inertia" json:"inertia" yaml:"inertia"`
	PersonalCoeff float64 `mapstructure:"personal_coeff" json:"personal_coeff" yaml:"personal_coeff"`
	GlobalCoeff   float64 `mapstructure:"global_coeff" json:"global_coeff" yaml:"global_coeff"`

	// 爬山
	Restarts int `mapstructure:"restarts" json:"restarts" yaml:"restarts"`

	// 聚类
	SimilarityThreshold float64 `mapstructure:"similarity_threshold" json:"similarity_threshold" yaml:"similarity_threshold"`
	SimilarityMeasure   string  `mapstructure:"similarity_measure" json:"similarity_measure" yaml:"similarity_measure"`

	Workers   int `mapstructure:"workers" json:"workers" yaml:"workers"`
	CacheSize int `mapstructure:"cache_size" json:"cache_size" yaml:"cache_size"`
}

func Default() Config {
	return Config{
		Strategy:            gp_config.Strategy,
		MinSupport:          gp_config.MinSupport,
		MinPatternSize:      gp_config.MinPatternSize,
		MaxPatternSize:      gp_config.MaxPatternSize,
		MaximalOnly:         gp_config.MaximalOnly,
		MaxIterations:       gp_config.MaxIterations,
		MaxEvaluations:      gp_config.MaxEvaluations,
		Patience:            gp_config.Patience,
		TopK:                gp_config.TopK,
		RandomSeed:          gp_config.RandomSeed,
		TimeBudget:          gp_config.TimeBudget,
		NumAnts:             gp_config.NumAnts,
		EvaporationRate:     gp_config.EvaporationRate,
		Alpha:               gp_config.Alpha,
		Beta:                gp_config.Beta,
		PopulationSize:      gp_config.PopulationSize,
		MutationRate:        gp_config.MutationRate,
		CrossoverRate:       gp_config.CrossoverRate,
		TournamentSize:      gp_config.TournamentSize,
		EliteCount:          gp_config.EliteCount,
		SwarmSize:           gp_config.SwarmSize,
		Inertia:             gp_config.Inertia,
		PersonalCoeff:       gp_config.PersonalCoeff,
		GlobalCoeff:         gp_config.GlobalCoeff,
		Restarts:            gp_config.Restarts,
		SimilarityThreshold: gp_config.SimilarityThreshold,
		SimilarityMeasure:   gp_config.SimilarityMeasure,
		Workers:             gp_config.Workers,
		CacheSize:           gp_config.CacheSize,
	}
}

// Merge 用 other 中非零的字段覆盖 c，布尔值只能打开
// other 里的0当作没填，要用0的参数只能写在配置文件里
func (c Config) Merge(other Config) Config {
	if other.Strategy != "" {
		c.Strategy = other.Strategy
	}
	if other.MinSupport > 0 {
		c.MinSupport = other.MinSupport
	}
	if other.MinPatternSize > 0 {
		c.MinPatternSize = other.MinPatternSize
	}
	if other.MaxPatternSize > 0 {
		c.MaxPatternSize = other.MaxPatternSize
	}
	c.MaximalOnly = c.MaximalOnly || other.MaximalOnly
	if other.MaxIterations > 0 {
		c.MaxIterations = other.MaxIterations
	}
	if other.MaxEvaluations > 0 {
		c.MaxEvaluations = other.MaxEvaluations
	}
	if other.Patience > 0 {
		c.Patience = other.Patience
	}
	if other.TopK > 0 {
		c.TopK = other.TopK
	}
	if other.RandomSeed != 0 {
		c.RandomSeed = other.RandomSeed
	}
	if other.TimeBudget > 0 {
		c.TimeBudget = other.TimeBudget
	}
	if other.NumAnts > 0 {
		c.NumAnts = other.NumAnts
	}
	if other.EvaporationRate > 0 {
		c.EvaporationRate = other.EvaporationRate
	}
	if other.Alpha > 0 {
		c.Alpha = other.Alpha
	}
	if other.Beta > 0 {
		c.Beta = other.Beta
	}
	if other.PopulationSize > 0 {
		c.PopulationSize = other.PopulationSize
	}
	if other.MutationRate > 0 {
		c.MutationRate = other.MutationRate
	}
	if other.CrossoverRate > 0 {
		c.CrossoverRate = other.CrossoverRate
	}
	if other.TournamentSize > 0 {
		c.TournamentSize = other.TournamentSize
	}
	if other.EliteCount > 0 {
		c.EliteCount = other.EliteCount
	}
	if other.SwarmSize > 0 {
		c.SwarmSize = other.SwarmSize
	}
	if other.Inertia > 0 {
		c.Inertia = other.Inertia
	}
	if other.PersonalCoeff > 0 {
		c.PersonalCoeff = other.PersonalCoeff
	}
	if other.GlobalCoeff > 0 {
		c.GlobalCoeff = other.GlobalCoeff
	}
	if other.Restarts > 0 {
		c.Restarts = other.Restarts
	}
	if other.SimilarityThreshold > 0 {
		c.SimilarityThreshold = other.SimilarityThreshold
	}
	if other.SimilarityMeasure != "" {
		c.SimilarityMeasure = other.SimilarityMeasure
	}
	if other.Workers > 0 {
		c.Workers = other.Workers
	}
	if other.CacheSize > 0 {
		c.CacheSize = other.CacheSize
	}
	return c
}

// Validate 参数不合法时返回 ErrInvalidConfig
func (c Config) Validate() error {
	if _, ok := enum.ParseStrategy(c.Strategy); !ok {
		return errors.Wrapf(utils.ErrUnknownStrategy, "%q", c.Strategy)
	}
	if c.MinSupport <= 0 || c.MinSupport > 1 {
		return errors.Wrapf(utils.ErrInvalidConfig, "min_support %v not in (0,1]", c.MinSupport)
	}
	if c.MinPatternSize < 1 {
		return errors.Wrapf(utils.ErrInvalidConfig, "min_pattern_size %d < 1", c.MinPatternSize)
	}
	if c.MaxPatternSize < 0 || (c.MaxPatternSize > 0 && c.MaxPatternSize < c.MinPatternSize) {
		return errors.Wrapf(utils.ErrInvalidConfig, "max_pattern_size %d, min_pattern_size %d", c.MaxPatternSize, c.MinPatternSize)
	}
	if c.MaxIterations < 1 {
		return errors.Wrapf(utils.ErrInvalidConfig, "max_iterations %d < 1", c.MaxIterations)
	}
	if c.MaxEvaluations < 0 || c.Patience < 0 || c.TopK < 0 || c.Restarts < 0 || c.Workers < 0 || c.CacheSize < 0 {
		return errors.Wrap(utils.ErrInvalidConfig, "negative limit")
	}
	if c.NumAnts < 1 || c.PopulationSize < 1 || c.SwarmSize < 1 {
		return errors.Wrap(utils.ErrInvalidConfig, "num_ants, population_size and swarm_size must be positive")
	}
	for name, rate := range map[string]float64{
		"evaporation_rate": c.EvaporationRate,
		"mutation_rate":    c.MutationRate,
		"crossover_rate":   c.CrossoverRate,
	} {
		if rate < 0 || rate > 1 {
			return errors.Wrapf(utils.ErrInvalidConfig, "%s %v not in [0,1]", name, rate)
		}
	}
	if c.EvaporationRate >= 1 {
		return errors.Wrap(utils.ErrInvalidConfig, "evaporation_rate must be < 1")
	}
	if c.Alpha < 0 || c.Beta < 0 || c.Inertia < 0 || c.PersonalCoeff < 0 || c.GlobalCoeff < 0 {
		return errors.Wrap(utils.ErrInvalidConfig, "negative coefficient")
	}
	if c.TournamentSize < 1 || c.EliteCount < 0 || c.EliteCount >= c.PopulationSize {
		return errors.Wrapf(utils.ErrInvalidConfig, "tournament_size %d, elite_count %d", c.TournamentSize, c.EliteCount)
	}
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return errors.Wrapf(utils.ErrInvalidConfig, "similarity_threshold %v not in (0,1]", c.SimilarityThreshold)
	}
	if !enum.SimilarityMeasure(c.SimilarityMeasure).Valid() {
		return errors.Wrapf(utils.ErrInvalidConfig, "similarity_measure %q", c.SimilarityMeasure)
	}
	if c.TimeBudget < 0 {
		return errors.Wrap(utils.ErrInvalidConfig, "negative time_budget")
	}
	return nil
}

// StrategyName Validate 之后调用
func (c Config) StrategyName() enum.Strategy {
	s, _ := enum.ParseStrategy(c.Strategy)
	return s
}

// PatternSizeOK 模式长度是否在输出范围内
func (c Config) PatternSizeOK(size int) bool {
	if size < c.MinPatternSize {
		return false
	}
	return c.MaxPatternSize == 0 || size <= c.MaxPatternSize
}
