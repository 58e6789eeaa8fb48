package format

import (
	"github.com/pkg/errors"
	"gp-miner/utils"
	"strings"
)

// Dataset 按列存放的数值表，列即属性，创建后只读
type Dataset struct {
	data            [][]float64 // [列][行]
	names           []string
	featureIndexMap map[string]int
	rows            int
}

// NewDataset 至少2行2列，列长一致，列名非空且不重复
func NewDataset(names []string, columns [][]float64) (*Dataset, error) {
	if len(columns) < 2 {
		return nil, errors.Wrapf(utils.ErrInvalidDataset, "need at least 2 attributes, got %d", len(columns))
	}
	if len(names) != len(columns) {
		return nil, errors.Wrapf(utils.ErrInvalidDataset, "%d names for %d columns", len(names), len(columns))
	}
	rows := len(columns[0])
	if rows < 2 {
		return nil, errors.Wrapf(utils.ErrInvalidDataset, "need at least 2 rows, got %d", rows)
	}
	idMap := make(map[string]int, len(names))
	data := make([][]float64, len(columns))
	for i, column := range columns {
		name := strings.TrimSpace(names[i])
		if name == "" {
			return nil, errors.Wrapf(utils.ErrInvalidDataset, "column %d has no name", i)
		}
		if _, exist := idMap[name]; exist {
			return nil, errors.Wrapf(utils.ErrInvalidDataset, "duplicate column name %q", name)
		}
		if len(column) != rows {
			return nil, errors.Wrapf(utils.ErrInvalidDataset, "column %q has %d rows, expect %d", name, len(column), rows)
		}
		idMap[name] = i
		data[i] = make([]float64, rows)
		copy(data[i], column)
	}
	cleaned := make([]string, len(names))
	for name, i := range idMap {
		cleaned[i] = name
	}
	return &Dataset{
		data:            data,
		names:           cleaned,
		featureIndexMap: idMap,
		rows:            rows,
	}, nil
}

// FromRows 行优先的数据转成 Dataset
func FromRows(names []string, rows [][]float64) (*Dataset, error) {
	columns := make([][]float64, len(names))
	for r, row := range rows {
		if len(row) != len(names) {
			return nil, errors.Wrapf(utils.ErrInvalidDataset, "row %d has %d values, expect %d", r, len(row), len(names))
		}
		for c, v := range row {
			columns[c] = append(columns[c], v)
		}
	}
	return NewDataset(names, columns)
}

func (d *Dataset) Rows() int {
	return (*d).rows
}

func (d *Dataset) Attributes() int {
	return len((*d).data)
}

func (d *Dataset) Names() []string {
	res := make([]string, len((*d).names))
	copy(res, (*d).names)
	return res
}

func (d *Dataset) Name(attr int) string {
	return (*d).names[attr]
}

// IndexOf 列名 -> 列号
func (d *Dataset) IndexOf(name string) (int, bool) {
	i, ok := (*d).featureIndexMap[name]
	return i, ok
}

// GetAllValuesOf 某一列的全部值，调用方不能修改
func (d *Dataset) GetAllValuesOf(attr int) []float64 {
	return (*d).data[attr]
}

func (d *Dataset) GetFloat64Element(row, attr int) float64 {
	return (*d).data[attr][row]
}
