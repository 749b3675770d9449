package paging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	page, limit := Normalize(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPageSize, limit)

	page, limit = Normalize(-3, -1)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPageSize, limit)

	page, limit = Normalize(2, 20)
	assert.Equal(t, 2, page)
	assert.Equal(t, 20, limit)
}

func TestNew(t *testing.T) {
	t.Run("partial last page", func(t *testing.T) {
		p := New(1, 20, 45)
		assert.Equal(t, 1, p.CurrentPage)
		assert.Equal(t, 3, p.TotalPages)
		assert.Equal(t, int64(45), p.TotalCount)
		assert.True(t, p.HasMore)
	})

	t.Run("exact fit", func(t *testing.T) {
		p := New(2, 20, 40)
		assert.Equal(t, 2, p.TotalPages)
		assert.False(t, p.HasMore)
	})

	t.Run("empty result", func(t *testing.T) {
		p := New(1, 20, 0)
		assert.Equal(t, 0, p.TotalPages)
		assert.False(t, p.HasMore)
	})

	t.Run("has more only while items remain past the page", func(t *testing.T) {
		assert.True(t, New(1, 10, 11).HasMore)
		assert.False(t, New(2, 10, 11).HasMore)
		assert.False(t, New(5, 10, 11).HasMore)
	})
}
