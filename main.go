package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gp-miner/gp_config"
	"gp-miner/rock-share/base/config"
	"gp-miner/rock-share/base/logger"
	"gp-miner/utils"
)

func main() {
	// 一些初始化配置
	config.InitConfig()
	all := config.All
	l := all.Logger
	ss := all.Server
	logger.InitLogger(l.Level, gp_config.ProjectName, l.Path, l.MaxAge, l.RotationTime, l.RotationSize, ss.SentryDsn)
	defer logger.Sync()

	port := ss.HttpPort
	if port == "" {
		port = gp_config.GinPort
	}
	if err := setupRouter().Run(":" + port); err != nil {
		logger.Errorf("gin run failed, err:%v", err)
	}
}

func setupRouter() *gin.Engine {
	r := gin.Default()
	r.POST("/gp", start)
	r.POST("/gp/stop/:taskId", stop)
	r.GET("/gp/tasks", tasks)
	return r
}

func start(c *gin.Context) {
	var requestJson GPRequest
	if err := c.ShouldBindJSON(&requestJson); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		logger.Warnf("请求异常: %v", err)
		return
	}
	// 同步返回，挖掘结束后才有响应；中途停止需要请求里自带 task_id，
	// 或者轮询 /gp/tasks 拿到服务端生成的 id，再调用 /gp/stop/:taskId
	res, e := DigPatterns(context.Background(), &requestJson)
	if e != nil {
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"error":   e.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"task_id":      res.TaskId,
		"status":       res.Status,
		"result_path":  res.Path,
		"pattern_size": len(res.Output.Patterns),
		"spent_time":   res.SpentTime,
		"output":       res.Output,
	})
}

func stop(c *gin.Context) {
	taskId := c.Param("taskId")
	if err := StopTask(taskId); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, utils.ErrTaskNotExist) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"task_id": taskId,
	})
}

func tasks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"tasks": ListTasks(),
	})
}
