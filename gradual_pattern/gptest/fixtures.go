// Package gptest 各包单测共用的数据集
package gptest

import (
	"math/rand"

	"gp-miner/gradual_pattern/format"
)

// SalaryDataset 10行：age 递增；salary 递减但第2、7行互换(翻转9个行对)；cars 无规律
// {age+, salary-} 的支持度为 36/45 = 0.8，{age+, cars+} 为 0.6
func SalaryDataset() *format.Dataset {
	age := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	salary := []float64{100, 90, 30, 70, 60, 50, 40, 80, 20, 10}
	cars := []float64{3, 1, 4, 1, 5, 9, 2, 6, 5, 3}
	ds, err := format.NewDataset([]string{"age", "salary", "cars"}, [][]float64{age, salary, cars})
	if err != nil {
		panic(err)
	}
	return ds
}

// DummyDataset 5行4列，{Age+, Expenses-} 支持度为1
func DummyDataset() *format.Dataset {
	ds, err := format.FromRows([]string{"Age", "Salary", "Cars", "Expenses"}, [][]float64{
		{30, 3, 1, 10},
		{35, 2, 2, 8},
		{40, 4, 2, 7},
		{50, 1, 1, 6},
		{52, 7, 1, 2},
	})
	if err != nil {
		panic(err)
	}
	return ds
}

// RandomDataset rows*cols 的随机数据，种子固定
func RandomDataset(rows, cols int, seed int64) *format.Dataset {
	rng := rand.New(rand.NewSource(seed))
	names := make([]string, cols)
	columns := make([][]float64, cols)
	for c := 0; c < cols; c++ {
		names[c] = string(rune('a'+c%26)) + string(rune('0'+c/26))
		columns[c] = make([]float64, rows)
		for r := 0; r < rows; r++ {
			columns[c][r] = float64(rng.Intn(rows))
		}
	}
	ds, err := format.NewDataset(names, columns)
	if err != nil {
		panic(err)
	}
	return ds
}

// DominantDataset 12行4列：a、b 同序，c 与 a 完全反序，d 与 a 只有4个行对颠倒
// 长度>=2 的最优模式支持度为1，如 {a+, b+}、{a+, c-}、{a+, b+, c-}；方向一致的模式都不低于 62/66
func DominantDataset() *format.Dataset {
	a := make([]float64, 12)
	b := make([]float64, 12)
	c := make([]float64, 12)
	for i := range a {
		a[i] = float64(i + 1)
		b[i] = float64(3*(i+1) + 1)
		c[i] = float64(12 - i)
	}
	d := []float64{2, 1, 3, 5, 4, 6, 8, 7, 9, 11, 10, 12}
	ds, err := format.NewDataset([]string{"a", "b", "c", "d"}, [][]float64{a, b, c, d})
	if err != nil {
		panic(err)
	}
	return ds
}

// TwoClusterDataset 10行4列：a、b 同序，c、d 同序；a 与 c 的 {a+, c+} 支持度为0.8
// 相似度阈值0.9时分成 {a,b}、{c,d} 两簇，跨簇的 {a+, c+} 只有穷举能找到
func TwoClusterDataset() *format.Dataset {
	a := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	b := []float64{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}
	c := []float64{-100, -90, -30, -70, -60, -50, -40, -80, -20, -10}
	d := make([]float64, len(c))
	for i, v := range c {
		d[i] = 2 * v
	}
	ds, err := format.NewDataset([]string{"a", "b", "c", "d"}, [][]float64{a, b, c, d})
	if err != nil {
		panic(err)
	}
	return ds
}
