package enum

/*
挖掘任务状态：
DIG_EXEC 挖掘中
DIG_FINISH 挖掘完成
DIG_FAIL 挖掘失败
DIG_STOP 被手动停止，返回目前找到的最好结果
*/

const (
	DIG_EXEC   = "DIG_EXEC"
	DIG_FINISH = "DIG_FINISH"
	DIG_FAIL   = "DIG_FAIL"
	DIG_STOP   = "DIG_STOP"
)

// StopReasonToDigStatus 搜索结束原因 转化为 挖掘状态
func StopReasonToDigStatus(r StopReason) string {
	switch r {
	case StopCancelled:
		return DIG_STOP
	case "":
		return DIG_EXEC
	default:
		return DIG_FINISH
	}
}
