package ranking

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(cs []Candidate) []uint64 {
	out := make([]uint64, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.PostID)
	}
	return out
}

func TestParseStrategy(t *testing.T) {
	for _, raw := range []string{"latest", "hot", "discussed"} {
		s, err := ParseStrategy(raw)
		require.NoError(t, err)
		assert.Equal(t, Strategy(raw), s)
	}

	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, Latest, s)

	_, err = ParseStrategy("bogus")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
	_, err = ParseStrategy("HOT")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestScore(t *testing.T) {
	assert.Equal(t, 0.0, Score(0, 0, 0))
	assert.Equal(t, 3.0, Score(1, 0, 0))
	assert.Equal(t, 2.0, Score(0, 1, 0))
	assert.InDelta(t, 0.1, Score(0, 0, 1), 1e-9)
	assert.InDelta(t, 23.3, Score(5, 3, 23), 1e-9)

	// 超过 200 的浏览量不再加分
	assert.Equal(t, Score(2, 1, 200), Score(2, 1, 201))
	assert.Equal(t, Score(2, 1, 200), Score(2, 1, 100000))
	assert.Equal(t, 20.0, Score(0, 0, 5000))
}

func TestScoreMonotonic(t *testing.T) {
	for likes := int64(0); likes < 20; likes++ {
		for comments := int64(0); comments < 20; comments++ {
			for _, views := range []int64{0, 50, 199, 200, 500} {
				base := ScoreTenths(likes, comments, views)
				assert.GreaterOrEqual(t, ScoreTenths(likes+1, comments, views), base)
				assert.GreaterOrEqual(t, ScoreTenths(likes, comments+1, views), base)
				assert.GreaterOrEqual(t, ScoreTenths(likes, comments, views+1), base)
			}
		}
	}
}

func TestSortLatest(t *testing.T) {
	now := time.Now()
	cs := []Candidate{
		{PostID: 1, CreatedAt: now.Add(-2 * time.Hour)},
		{PostID: 2, CreatedAt: now},
		{PostID: 3, CreatedAt: now},
		{PostID: 4, CreatedAt: now.Add(-time.Hour)},
	}
	Sort(cs, Latest)
	assert.Equal(t, []uint64{3, 2, 4, 1}, ids(cs))
}

func TestSortHot(t *testing.T) {
	now := time.Now()
	cs := []Candidate{
		{PostID: 1, CreatedAt: now.Add(-3 * time.Hour), LikeCount: 1},                   // 3.0
		{PostID: 2, CreatedAt: now.Add(-2 * time.Hour), CommentCount: 1, ViewCount: 10}, // 3.0
		{PostID: 3, CreatedAt: now.Add(-time.Hour), ViewCount: 1000},                    // 20.0
		{PostID: 4, CreatedAt: now, LikeCount: 2, CommentCount: 1},                      // 8.0
	}
	Sort(cs, Hot)
	// 1 与 2 同分，较新的 2 在前
	assert.Equal(t, []uint64{3, 4, 2, 1}, ids(cs))
}

func TestSortDiscussed(t *testing.T) {
	now := time.Now()
	cs := []Candidate{
		{PostID: 1, CreatedAt: now.Add(-time.Hour), CommentCount: 5, LikeCount: 100},
		{PostID: 2, CreatedAt: now, CommentCount: 5},
		{PostID: 3, CreatedAt: now.Add(-2 * time.Hour), CommentCount: 9},
		{PostID: 4, CreatedAt: now},
	}
	Sort(cs, Discussed)
	assert.Equal(t, []uint64{3, 2, 1, 4}, ids(cs))
}

func TestTopK(t *testing.T) {
	now := time.Now()
	cs := []Candidate{
		{PostID: 1, CreatedAt: now, LikeCount: 1},
		{PostID: 2, CreatedAt: now, LikeCount: 3},
		{PostID: 3, CreatedAt: now, LikeCount: 2},
	}
	assert.Equal(t, []uint64{2, 3}, ids(TopK(cs, 2)))
	assert.Len(t, TopK(cs, 10), 3)
}

func TestPaginate(t *testing.T) {
	cs := make([]Candidate, 0, 7)
	for i := 1; i <= 7; i++ {
		cs = append(cs, Candidate{PostID: uint64(i)})
	}
	assert.Equal(t, []uint64{1, 2, 3}, ids(Paginate(cs, 1, 3)))
	assert.Equal(t, []uint64{7}, ids(Paginate(cs, 3, 3)))
	assert.Empty(t, Paginate(cs, 4, 3))
	assert.NotNil(t, Paginate(nil, 1, 10))
}

func TestPaginateHugePage(t *testing.T) {
	cs := []Candidate{{PostID: 1}, {PostID: 2}}
	assert.Empty(t, Paginate(cs, math.MaxInt/4+2, 4))
	assert.Empty(t, Paginate(cs, math.MaxInt, 50))
}

func TestOffset(t *testing.T) {
	offset, ok := Offset(3, 10)
	assert.True(t, ok)
	assert.Equal(t, 20, offset)

	_, ok = Offset(0, 10)
	assert.False(t, ok)
	_, ok = Offset(math.MaxInt/4+2, 4)
	assert.False(t, ok)

	offset, ok = Offset(math.MaxInt/4, 4)
	assert.True(t, ok)
	assert.Equal(t, (math.MaxInt/4-1)*4, offset)
}
