package analyze_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/devpulse/devpulse/analyze"
)

func TestTopN_LimitsAndSorts(t *testing.T) {
	t.Parallel()

	items := []int{3, 1, 4, 1, 5, 9, 2, 6}

	top3 := analyze.TopN(items, 3, func(a, b int) bool { return a > b })

	assert.Equal(t, []int{9, 6, 5}, top3)
}

func TestTopN_NZeroReturnsAllSorted(t *testing.T) {
	t.Parallel()

	items := []int{3, 1, 2}

	all := analyze.TopN(items, 0, func(a, b int) bool { return a < b })

	assert.Equal(t, []int{1, 2, 3}, all)
}

func TestTopN_StableOnTies(t *testing.T) {
	t.Parallel()

	type named struct {
		Name  string
		Score int
	}

	items := []named{{"bob", 5}, {"alice", 5}, {"carol", 5}}

	top := analyze.TopN(items, 2, func(a, b named) bool { return a.Score > b.Score })

	assert.Equal(t, []named{{"bob", 5}, {"alice", 5}}, top)
}

func TestTopN_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	items := []int{3, 1, 2}

	_ = analyze.TopN(items, 2, func(a, b int) bool { return a < b })

	assert.Equal(t, []int{3, 1, 2}, items)
}
