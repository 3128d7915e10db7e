package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOperationQuery_Normalize(t *testing.T) {
	q := OperationQuery{OrderBy: "random", Page: 0, Limit: 500}.Normalize()

	assert.Equal(t, OrderByHot, q.OrderBy)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, MaxPageLimit, q.Limit)
	assert.Equal(t, 0, q.Offset())

	q = OperationQuery{OrderBy: OrderByViews, Page: 3}.Normalize()
	assert.Equal(t, OrderByViews, q.OrderBy)
	assert.Equal(t, DefaultPageLimit, q.Limit)
	assert.Equal(t, 20, q.Offset())
}

func TestHotScore(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	fresh := HotScore(10, now.Add(-time.Hour), now)
	stale := HotScore(10, now.Add(-48*time.Hour), now)
	popular := HotScore(100, now.Add(-48*time.Hour), now)

	assert.Greater(t, fresh, stale)
	assert.Greater(t, popular, stale)
	assert.Equal(t, 0.0, HotScore(0, now, now))
	// clock skew does not produce a negative age
	assert.Equal(t, HotScore(5, now, now), HotScore(5, now.Add(time.Hour), now))
}
