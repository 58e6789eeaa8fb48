// Package report 挖掘结果的输出格式：终端表格、csv、yaml
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"
	"gp-miner/gp_config"
	"gp-miner/rock-share/global/model/gp"
	"gp-miner/utils"
)

// Row 一个模式，Items 形如 ["age+", "salary-"]
type Row struct {
	Items   []string `json:"items" yaml:"items"`
	Support float64  `json:"support" yaml:"support"`
}

// Meta 一个策略一次运行的统计
type Meta struct {
	Strategy       string     `json:"strategy" yaml:"strategy"`
	Iterations     int        `json:"iterations" yaml:"iterations"`
	Evaluations    int64      `json:"evaluations" yaml:"evaluations"`
	Candidates     int        `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	InvalidCount   int        `json:"invalid_count" yaml:"invalid_count"`
	Pruned         int        `json:"pruned" yaml:"pruned"`
	Found          int        `json:"found" yaml:"found"`
	Best           *Row       `json:"best,omitempty" yaml:"best,omitempty"`
	BelowThreshold bool       `json:"below_threshold" yaml:"below_threshold"`
	StopReason     string     `json:"stop_reason" yaml:"stop_reason"`
	Elapsed        string     `json:"elapsed" yaml:"elapsed"`
	Clusters       [][]string `json:"clusters,omitempty" yaml:"clusters,omitempty"`
}

// Output 一次挖掘的完整结果
type Output struct {
	RunID      string  `json:"run_id" yaml:"run_id"`
	Strategy   string  `json:"strategy" yaml:"strategy"`
	MinSupport float64 `json:"min_support" yaml:"min_support"`
	Rows       int     `json:"rows" yaml:"rows"`
	Attributes int     `json:"attributes" yaml:"attributes"`
	Patterns   []Row   `json:"patterns" yaml:"patterns"`
	Runs       []Meta  `json:"runs" yaml:"runs"`
}

func NewRow(r gp.Result, names []string) Row {
	return Row{Items: r.Pattern.Render(names), Support: r.Support}
}

func NewRows(results []gp.Result, names []string) []Row {
	rows := make([]Row, len(results))
	for i, r := range results {
		rows[i] = NewRow(r, names)
	}
	return rows
}

// FormatElapsed 耗时保留到毫秒
func FormatElapsed(d time.Duration) string {
	return d.Round(time.Millisecond).String()
}

func (r Row) String() string {
	return "{" + strings.Join(r.Items, ", ") + "}"
}

func formatSupport(s float64) string {
	return fmt.Sprintf("%.*f", gp_config.SupportDigits, utils.Round(s, gp_config.SupportDigits))
}

// Table 模式表和每个策略的运行统计
func Table(w io.Writer, out *Output) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("GRADUAL PATTERNS (%s, min_support=%v)", out.Strategy, out.MinSupport))
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "#", Align: text.AlignRight},
		{Name: "Pattern", AlignHeader: text.AlignCenter, WidthMax: 80},
		{Name: "Support", Align: text.AlignRight, AlignHeader: text.AlignCenter},
	})
	t.AppendHeader(table.Row{"#", "Pattern", "Support"})
	for i, r := range out.Patterns {
		t.AppendRow(table.Row{i + 1, r.String(), formatSupport(r.Support)})
	}
	t.AppendFooter(table.Row{"", "Total", len(out.Patterns)})
	t.Render()

	if len(out.Runs) == 0 {
		return
	}
	s := table.NewWriter()
	s.SetOutputMirror(w)
	s.SetTitle("RUNS " + out.RunID)
	s.AppendHeader(table.Row{"Strategy", "Iterations", "Evaluations", "Invalid", "Found", "Best", "Stop", "Elapsed"})
	for _, m := range out.Runs {
		best := "-"
		if m.Best != nil {
			best = fmt.Sprintf("%s %s", m.Best, formatSupport(m.Best.Support))
		}
		s.AppendRow(table.Row{m.Strategy, m.Iterations, m.Evaluations, m.InvalidCount, m.Found, best, m.StopReason, m.Elapsed})
	}
	s.Render()
}

// Records csv 内容，第一行为表头
func Records(out *Output) [][]string {
	records := make([][]string, 0, len(out.Patterns)+1)
	records = append(records, []string{"pattern", "size", "support"})
	for _, r := range out.Patterns {
		records = append(records, []string{strings.Join(r.Items, " "), fmt.Sprintf("%d", len(r.Items)), formatSupport(r.Support)})
	}
	return records
}

func WriteCSV(path string, out *Output) error {
	return utils.CreateCsv(path, Records(out))
}

func WriteYAML(w io.Writer, out *Output) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}
