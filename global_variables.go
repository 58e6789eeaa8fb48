package main

import (
	"context"
	"sort"
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map"
	"github.com/pkg/errors"
	"gp-miner/rock-share/base/logger"
	"gp-miner/rock-share/global/enum"
	"gp-miner/utils"
)

// Tasks 正在运行的挖掘任务 [taskId, *GlobalV]
var Tasks = cmap.New()

// GlobalV 一个挖掘任务的运行状态
type GlobalV struct {
	TaskId string
	Start  time.Time
	cancel context.CancelFunc

	lock   sync.RWMutex
	status string
}

func (gv *GlobalV) Status() string {
	gv.lock.RLock()
	defer gv.lock.RUnlock()
	return gv.status
}

func (gv *GlobalV) SetStatus(status string) {
	gv.lock.Lock()
	gv.status = status
	gv.lock.Unlock()
}

// TaskInfo 任务列表的展示信息
type TaskInfo struct {
	TaskId  string `json:"task_id"`
	Status  string `json:"status"`
	Running int64  `json:"running_ms"`
}

// RegisterTask 登记任务，同名任务还在运行时返回 false
func RegisterTask(taskId string, cancel context.CancelFunc) (*GlobalV, bool) {
	gv := &GlobalV{
		TaskId: taskId,
		Start:  time.Now(),
		cancel: cancel,
		status: enum.DIG_EXEC,
	}
	if !Tasks.SetIfAbsent(taskId, gv) {
		return nil, false
	}
	return gv, true
}

func GetGv(taskId string) (*GlobalV, bool) {
	v, ok := Tasks.Get(taskId)
	if !ok {
		return nil, false
	}
	return v.(*GlobalV), true
}

// StopTask 手动停止，挖掘会返回目前找到的结果
func StopTask(taskId string) error {
	gv, ok := GetGv(taskId)
	if !ok {
		return errors.Wrapf(utils.ErrTaskNotExist, "task %s", taskId)
	}
	logger.Infof("taskId:%v 收到停止请求", taskId)
	gv.SetStatus(enum.DIG_STOP)
	gv.cancel()
	return nil
}

func ClearTask(taskId string) {
	if _, ok := Tasks.Get(taskId); !ok {
		logger.Warnf("[ClearTask] 无法拿到任务:%s", taskId)
		return
	}
	Tasks.Remove(taskId)
}

func ListTasks() []TaskInfo {
	now := time.Now()
	res := make([]TaskInfo, 0, Tasks.Count())
	for _, key := range Tasks.Keys() {
		gv, ok := GetGv(key)
		if !ok {
			continue
		}
		res = append(res, TaskInfo{TaskId: gv.TaskId, Status: gv.Status(), Running: now.Sub(gv.Start).Milliseconds()})
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].TaskId < res[j].TaskId
	})
	return res
}
