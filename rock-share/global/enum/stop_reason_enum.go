package enum

// StopReason 一次搜索结束的原因
type StopReason string

const (
	StopMaxIterations StopReason = "max_iterations"
	StopConverged     StopReason = "converged"
	StopBudget        StopReason = "evaluation_budget"
	StopCancelled     StopReason = "cancelled"
	StopExhausted     StopReason = "exhausted" // 穷举搜索正常结束
	StopNoCandidates  StopReason = "no_candidates"
)
