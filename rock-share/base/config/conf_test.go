package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"gp-miner/gp_config"
)

const sampleConfig = `
server_config:
  http_port: "18080"
logger_config:
  level: debug
  path: ./logs
mining_config:
  strategy: aco
  min_support: 0.6
  num_ants: 8
  time_budget: 3s
`

func TestLoad(t *testing.T) {
	Convey("读取配置文件", t, func() {
		dir := t.TempDir()

		Convey("未配置的挖掘参数取默认值", func() {
			So(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(sampleConfig), 0o644), ShouldBeNil)
			all, err := Load(dir)
			So(err, ShouldBeNil)
			So(all.Server.HttpPort, ShouldEqual, "18080")
			So(all.Server.ResultDir, ShouldEqual, gp_config.ResultDir)
			So(all.Logger.Level, ShouldEqual, "debug")
			So(all.Mining.Strategy, ShouldEqual, "aco")
			So(all.Mining.MinSupport, ShouldEqual, 0.6)
			So(all.Mining.NumAnts, ShouldEqual, 8)
			So(all.Mining.TimeBudget, ShouldEqual, 3*time.Second)
			So(all.Mining.EvaporationRate, ShouldEqual, gp_config.EvaporationRate)
			So(all.Mining.PopulationSize, ShouldEqual, gp_config.PopulationSize)
		})

		Convey("非法挖掘参数直接报错", func() {
			bad := "mining_config:\n  min_support: 2\n"
			So(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(bad), 0o644), ShouldBeNil)
			_, err := Load(dir)
			So(err, ShouldNotBeNil)
		})

		Convey("没有配置文件", func() {
			_, err := Load(filepath.Join(dir, "missing"))
			So(err, ShouldNotBeNil)
		})
	})
}
