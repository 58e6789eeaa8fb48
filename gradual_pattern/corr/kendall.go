package corr

import (
	"context"
	"math"
	"sync"

	"gp-miner/gradual_pattern/conf/mine"
)

// pairCount 一批行对的统计
type pairCount struct {
	con, dis         float64
	onlyInX, onlyInY float64
}

func (c *pairCount) add(o pairCount) {
	c.con += o.con
	c.dis += o.dis
	c.onlyInX += o.onlyInX
	c.onlyInY += o.onlyInY
}

// tauB (con-dis)/sqrt((con+dis+只在x上相等)*(con+dis+只在y上相等))
func (c pairCount) tauB() float64 {
	denominator := math.Sqrt((c.con + c.dis + c.onlyInX) * (c.con + c.dis + c.onlyInY))
	if denominator == 0 {
		return 0
	}
	return (c.con - c.dis) / denominator
}

// countRows 统计 i∈[start,end) 与其后所有行组成的行对
func countRows(a, b []float64, start, end int) pairCount {
	var c pairCount
	length := len(a)
	for i := start; i < end; i++ {
		for j := i + 1; j < length; j++ {
			x := sign(a[i] - a[j])
			y := sign(b[i] - b[j])
			switch x * y {
			case 1:
				c.con++
			case -1:
				c.dis++
			}
			if x == 0 && y != 0 {
				c.onlyInX++
			} else if y == 0 && x != 0 {
				c.onlyInY++
			}
		}
	}
	return c
}

// kendallExact 单协程版本，数据量小时直接用
func kendallExact(a, b []float64) float64 {
	return countRows(a, b, 0, len(a)-1).tauB()
}

// KendallExact Kendall tau-b 精确计算，按 KendallExactBatchSize 行分批并发
// ctx 结束时返回 ctx.Err()
func KendallExact(ctx context.Context, a, b []float64) (float64, error) {
	length := len(a)
	if length < 2 {
		return 0, nil
	}
	batchSize := mine.KendallExactBatchSize
	if length <= batchSize {
		return kendallExact(a, b), ctx.Err()
	}
	numBatches := int(math.Ceil(float64(length-1) / float64(batchSize)))
	routinePool := make(chan struct{}, mine.EncodeCoreNum)
	results := make([]pairCount, numBatches)
	var wg sync.WaitGroup
	for batch := 0; batch < numBatches; batch++ {
		start := batch * batchSize
		end := start + batchSize
		if end > length-1 {
			end = length - 1
		}
		routinePool <- struct{}{}
		wg.Add(1)
		go func(batch, start, end int) {
			defer func() {
				<-routinePool
				wg.Done()
			}()
			if ctx.Err() != nil {
				return
			}
			results[batch] = countRows(a, b, start, end)
		}(batch, start, end)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var total pairCount
	for _, r := range results {
		total.add(r)
	}
	return total.tauB(), nil
}
