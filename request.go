package main

import (
	"gp-miner/gradual_pattern/conf/mine"
)

// GPRequest 一次挖掘请求，数据二选一：Path 指向服务端的csv，或者 Names+Rows 直接给出
// TaskId 可由调用方指定，挖掘期间可以用它调用 /gp/stop/:taskId；不填时服务端生成
// Config 叠加在配置文件的挖掘参数上，只有非零值生效：
// 0 或 false 表示沿用配置文件(或默认值)，无法通过请求把 mutation_rate、patience、
// random_seed 等设为0，也无法关掉配置文件中打开的 maximal_only
type GPRequest struct {
	TaskId     string      `json:"task_id"`
	Path       string      `json:"path"`
	Names      []string    `json:"names"`
	Rows       [][]float64 `json:"rows"`
	Strategies []string    `json:"strategies"`
	Config     mine.Config `json:"config"`
}
