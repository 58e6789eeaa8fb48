package repository

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gp-miner/rock-share/global/model/gp"
)

func TestOffer(t *testing.T) {
	repo := New(0.5)

	p := gp.MustPattern(gp.Inc(0), gp.Dec(1))
	require.True(t, repo.Offer(p, 0.8))

	// 相同签名只保留第一次
	assert.False(t, repo.Offer(p, 0.9))
	// 逆模式是同一个规范签名
	assert.False(t, repo.Offer(p.Inverse(), 0.8))
	// 低于阈值不入库
	assert.False(t, repo.Offer(gp.MustPattern(gp.Inc(0), gp.Inc(2)), 0.4))
	assert.False(t, repo.Offer(gp.Pattern{}, 1))

	out := repo.Export()
	require.Len(t, out, 1)
	assert.Equal(t, 0.8, out[0].Support)
	assert.Equal(t, "0+,1-", out[0].Pattern.Signature())
}

func TestOfferStoresCanonical(t *testing.T) {
	repo := New(0.5)
	require.True(t, repo.Offer(gp.MustPattern(gp.Dec(0), gp.Inc(1)), 0.7))
	out := repo.Export()
	require.Len(t, out, 1)
	assert.Equal(t, "0+,1-", out[0].Pattern.Signature())
}

func TestExportOrder(t *testing.T) {
	repo := New(0.5)
	repo.Offer(gp.MustPattern(gp.Inc(0), gp.Inc(1), gp.Dec(3)), 0.6)
	repo.Offer(gp.MustPattern(gp.Inc(1), gp.Dec(3)), 0.6)
	repo.Offer(gp.MustPattern(gp.Inc(0), gp.Inc(1)), 0.6)
	repo.Offer(gp.MustPattern(gp.Inc(0), gp.Dec(3)), 1)

	var got []string
	for _, r := range repo.Export() {
		got = append(got, r.Pattern.Signature())
	}
	assert.Equal(t, []string{"0+,3-", "0+,1+", "1+,3-", "0+,1+,3-"}, got)

	maximal := repo.Maximal()
	require.Len(t, maximal, 1)
	assert.Equal(t, "0+,1+,3-", maximal[0].Pattern.Signature())
}

func TestMinSize(t *testing.T) {
	repo := New(0.5, WithMinSize(2))
	assert.False(t, repo.Offer(gp.MustPattern(gp.Inc(0)), 1))
	assert.True(t, repo.Offer(gp.MustPattern(gp.Inc(0), gp.Inc(1)), 1))
	assert.Equal(t, 1, repo.Len())
}

func TestConcurrentOffer(t *testing.T) {
	repo := New(0.1)
	patterns := []gp.Pattern{
		gp.MustPattern(gp.Inc(0), gp.Inc(1)),
		gp.MustPattern(gp.Inc(0), gp.Dec(1)),
		gp.MustPattern(gp.Inc(1), gp.Inc(2)),
		gp.MustPattern(gp.Inc(0), gp.Inc(1), gp.Inc(2)),
	}
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, p := range patterns {
				repo.Offer(p, 0.5)
				repo.Offer(p.Inverse(), 0.5)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, len(patterns), repo.Len())

	added := repo.OfferAll([]gp.Result{
		{Pattern: gp.MustPattern(gp.Inc(3), gp.Inc(4)), Support: 0.2},
		{Pattern: gp.MustPattern(gp.Inc(0), gp.Inc(1)), Support: 0.9},
	})
	assert.Equal(t, 1, added)
}
