package utils

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gp-miner/rock-share/base/logger"
)

func GetCsvData(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		logger.Errorf("opens a csv failed, err:%v", err)
		return nil, errors.Wrapf(ErrOpenCsv, "%s: %v", path, err)
	}
	defer f.Close()
	reader := csv.NewReader(f)
	preData, err := reader.ReadAll()
	if err != nil {
		logger.Errorf("read a csv failed, err:%v", err)
		return nil, errors.Wrapf(ErrReadCsv, "%s: %v", path, err)
	}
	return preData, nil
}

func CreateCsv(path string, data [][]string) error {
	csvFile, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(ErrOpenCsv, "%s: %v", path, err)
	}
	defer csvFile.Close()
	csvWriter := csv.NewWriter(csvFile)
	err = csvWriter.WriteAll(data)
	if err != nil {
		logger.Errorf("write csv %s failed, err:%v", path, err)
		return err
	}
	return nil
}

// ReadCSVToColumns 读取数值型csv，返回表头和按列存放的数据
// 含空值的行直接跳过，非数值单元格报错
func ReadCSVToColumns(filePath string) ([]string, [][]float64, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, nil, errors.Wrapf(ErrOpenCsv, "%s: %v", filePath, err)
	}
	defer file.Close()
	return ReadColumns(csv.NewReader(file))
}

// ReadColumns 同 ReadCSVToColumns，输入为已打开的reader
func ReadColumns(reader *csv.Reader) ([]string, [][]float64, error) {
	headers, records, err := readCSV(reader)
	if err != nil {
		return nil, nil, errors.Wrapf(ErrReadCsv, "%v", err)
	}

	columns := make([][]float64, len(headers))
	skipped := 0
	for line, record := range records {
		if len(record) != len(headers) || hasMissing(record) {
			skipped++
			continue
		}
		for j, cell := range record {
			value, e := parseValue(cell)
			if e != nil {
				return nil, nil, errors.Wrapf(ErrWrongDataType, "line %d column %s: %q", line+2, headers[j], cell)
			}
			columns[j] = append(columns[j], value)
		}
	}
	if skipped > 0 {
		logger.Warnf("[ReadColumns] skip %d rows with missing values", skipped)
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(headers[i])
	}
	return headers, columns, nil
}

// 读取 CSV 内容并返回表头和记录
func readCSV(reader *csv.Reader) ([]string, [][]string, error) {
	reader.FieldsPerRecord = -1
	headers, err := reader.Read()
	if err != nil {
		return nil, nil, err
	}

	var records [][]string
	for {
		record, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, nil, err
		}
		records = append(records, record)
	}

	return headers, records, nil
}

func hasMissing(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) == "" {
			return true
		}
	}
	return false
}

// 将字符串值解析为浮点数
func parseValue(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if i, err := strconv.Atoi(value); err == nil {
		return float64(i), nil
	}
	return strconv.ParseFloat(value, 64)
}
