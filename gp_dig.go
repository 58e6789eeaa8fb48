package main

import (
	"context"
	"path"
	"time"

	"github.com/LinkinStars/golang-util/gu"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gp-miner/gp_config"
	"gp-miner/gradual_pattern/conf/mine"
	"gp-miner/gradual_pattern/format"
	"gp-miner/gradual_pattern/miner"
	"gp-miner/gradual_pattern/report"
	"gp-miner/rock-share/base/config"
	"gp-miner/rock-share/base/logger"
	"gp-miner/rock-share/global/enum"
	"gp-miner/utils"
)

// DigResult 一次挖掘任务的返回
type DigResult struct {
	TaskId    string
	Status    string
	Path      string
	SpentTime int64
	Output    *report.Output
}

func DigPatterns(ctx context.Context, request *GPRequest) (*DigResult, error) {
	startTime := time.Now().UnixMilli()
	taskId := request.TaskId
	if taskId == "" {
		taskId = uuid.New().String()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	gv, ok := RegisterTask(taskId, cancel)
	if !ok {
		return nil, errors.Wrapf(utils.ErrParameter, "task %s already running", taskId)
	}
	defer ClearTask(taskId)
	logger.Infof("taskId:%v 梯度模式挖掘开始", taskId)

	ds, err := loadDataset(request)
	if err != nil {
		gv.SetStatus(enum.DIG_FAIL)
		logger.Warnf("taskId:%v 数据加载失败, err:%v", taskId, err)
		return nil, err
	}
	cfg := baseConfig().Merge(request.Config)
	strategies := make([]enum.Strategy, 0, len(request.Strategies))
	for _, s := range request.Strategies {
		strategies = append(strategies, enum.Strategy(s))
	}

	out, err := miner.Compare(ctx, ds, cfg, strategies...)
	if err != nil {
		gv.SetStatus(enum.DIG_FAIL)
		logger.Errorf("taskId:%v 挖掘失败, err:%v", taskId, err)
		return nil, err
	}
	status := enum.DIG_FINISH
	if stopped(out) {
		status = enum.DIG_STOP
	}
	gv.SetStatus(status)

	p, err := writeResult(taskId, out)
	if err != nil {
		return nil, err
	}
	spent := time.Now().UnixMilli() - startTime
	logger.Infof("taskId:%v 梯度模式挖掘已完成,耗时%dms, 状态:%v, 模式数:%v", taskId, spent, status, len(out.Patterns))
	return &DigResult{TaskId: taskId, Status: status, Path: p, SpentTime: spent, Output: out}, nil
}

func loadDataset(request *GPRequest) (*format.Dataset, error) {
	if request.Path != "" {
		names, columns, err := utils.ReadCSVToColumns(request.Path)
		if err != nil {
			return nil, err
		}
		return format.NewDataset(names, columns)
	}
	if len(request.Rows) == 0 {
		return nil, errors.Wrap(utils.ErrParameter, "path or rows is required")
	}
	return format.FromRows(request.Names, request.Rows)
}

// baseConfig 配置文件里的挖掘参数，没加载配置时用默认值
func baseConfig() mine.Config {
	if config.All == nil {
		return mine.Default()
	}
	return config.All.Mining
}

// stopped 任一策略被手动停止或超时
func stopped(out *report.Output) bool {
	for _, run := range out.Runs {
		if enum.StopReasonToDigStatus(enum.StopReason(run.StopReason)) == enum.DIG_STOP {
			return true
		}
	}
	return false
}

func writeResult(taskId string, out *report.Output) (string, error) {
	dir := gp_config.ResultDir
	if config.All != nil && config.All.Server.ResultDir != "" {
		dir = config.All.Server.ResultDir
	}
	if err := gu.CreateDirIfNotExist(dir); err != nil {
		return "", errors.Wrapf(err, "create result dir %s", dir)
	}
	p := path.Join(dir, taskId+".csv")
	if err := report.WriteCSV(p, out); err != nil {
		return "", err
	}
	return p, nil
}
