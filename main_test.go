package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gp-miner/gradual_pattern/conf/mine"
	"gp-miner/gradual_pattern/gptest"
	"gp-miner/rock-share/base/config"
	"gp-miner/rock-share/global/enum"
	"gp-miner/utils"
)

func salaryRequest() GPRequest {
	ds := gptest.SalaryDataset()
	rows := make([][]float64, ds.Rows())
	for i := range rows {
		rows[i] = make([]float64, ds.Attributes())
		for j := range rows[i] {
			rows[i][j] = ds.GetFloat64Element(i, j)
		}
	}
	return GPRequest{
		Names:  ds.Names(),
		Rows:   rows,
		Config: mine.Config{MinSupport: 0.7},
	}
}

func withResultDir(t *testing.T) {
	old := config.All
	config.All = &config.AllConfig{
		Server: config.ServerConfig{ResultDir: t.TempDir()},
		Mining: mine.Default(),
	}
	t.Cleanup(func() { config.All = old })
}

func post(r http.Handler, url string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestStart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	withResultDir(t)
	r := setupRouter()

	body, err := json.Marshal(salaryRequest())
	require.NoError(t, err)
	w := post(r, "/gp", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success     bool   `json:"success"`
		Status      string `json:"status"`
		ResultPath  string `json:"result_path"`
		PatternSize int    `json:"pattern_size"`
		Output      struct {
			Patterns []struct {
				Items   []string `json:"items"`
				Support float64  `json:"support"`
			} `json:"patterns"`
		} `json:"output"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, enum.DIG_FINISH, resp.Status)
	assert.Equal(t, 1, resp.PatternSize)
	require.Len(t, resp.Output.Patterns, 1)
	assert.Equal(t, []string{"age+", "salary-"}, resp.Output.Patterns[0].Items)
	assert.Equal(t, 0.8, resp.Output.Patterns[0].Support)

	records, err := utils.GetCsvData(resp.ResultPath)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"pattern", "size", "support"}, {"age+ salary-", "2", "0.8000"}}, records)

	// 任务结束后从列表中移除
	assert.Empty(t, ListTasks())
}

func TestStartAlias(t *testing.T) {
	gin.SetMode(gin.TestMode)
	withResultDir(t)
	r := setupRouter()

	req := salaryRequest()
	req.TaskId = "salary-alias"
	// 别名和大写
	req.Strategies = []string{"aco-graank", "GRAANK"}
	body, err := json.Marshal(req)
	require.NoError(t, err)
	w := post(r, "/gp", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success     bool   `json:"success"`
		TaskId      string `json:"task_id"`
		PatternSize int    `json:"pattern_size"`
		Output      struct {
			Strategy string `json:"strategy"`
		} `json:"output"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "salary-alias", resp.TaskId)
	assert.Equal(t, "aco,graank", resp.Output.Strategy)
	assert.Equal(t, 1, resp.PatternSize)
}

func TestStartRunningTaskId(t *testing.T) {
	gin.SetMode(gin.TestMode)
	withResultDir(t)
	r := setupRouter()

	_, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, ok := RegisterTask("busy", cancel)
	require.True(t, ok)
	defer ClearTask("busy")

	req := salaryRequest()
	req.TaskId = "busy"
	body, _ := json.Marshal(req)
	w := post(r, "/gp", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.Contains(t, w.Body.String(), "already running")
}

func TestStartBadRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	withResultDir(t)
	r := setupRouter()

	w := post(r, "/gp", []byte("{"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 没有数据
	w = post(r, "/gp", []byte(`{"config":{"min_support":0.5}}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)

	// 未知策略
	req := salaryRequest()
	req.Strategies = []string{"simulated-annealing"}
	body, _ := json.Marshal(req)
	w = post(r, "/gp", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "unknown strategy")
}

func TestStop(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := setupRouter()

	w := post(r, "/gp/stop/not-a-task", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.True(t, errors.Is(StopTask("not-a-task"), utils.ErrTaskNotExist))

	ctx, cancel := context.WithCancel(context.Background())
	_, ok := RegisterTask("t1", cancel)
	require.True(t, ok)
	_, ok = RegisterTask("t1", cancel)
	assert.False(t, ok)
	defer ClearTask("t1")
	tasks := ListTasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, enum.DIG_EXEC, tasks[0].Status)

	w = post(r, "/gp/stop/t1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Error(t, ctx.Err())
	gv, ok := GetGv("t1")
	require.True(t, ok)
	assert.Equal(t, enum.DIG_STOP, gv.Status())

	get := httptest.NewRecorder()
	r.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/gp/tasks", nil))
	assert.Equal(t, http.StatusOK, get.Code)
	assert.Contains(t, get.Body.String(), `"task_id":"t1"`)
}
