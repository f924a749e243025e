package ranking

import (
	"errors"
	"math"
	"sort"
	"strings"
	"time"
)

// 热度权重固定，分数以 0.1 为单位用整数计算，避免浮点误差影响排序
const (
	LikeWeight    = 30
	CommentWeight = 20
	ViewWeight    = 1
	ViewCap       = 200
)

// Strategy 帖子列表的排序方式
type Strategy string

const (
	Latest    Strategy = "latest"
	Hot       Strategy = "hot"
	Discussed Strategy = "discussed"
)

var ErrUnknownStrategy = errors.New("unknown sort strategy")

// ParseStrategy 空串视为 latest
func ParseStrategy(raw string) (Strategy, error) {
	switch s := Strategy(strings.TrimSpace(raw)); s {
	case "":
		return Latest, nil
	case Latest, Hot, Discussed:
		return s, nil
	default:
		return "", ErrUnknownStrategy
	}
}

// NeedsAggregates latest 只依赖帖子本身的字段
func (s Strategy) NeedsAggregates() bool {
	return s == Hot || s == Discussed
}

// Candidate 参与排序的帖子及其聚合数据
type Candidate struct {
	PostID       uint64
	CreatedAt    time.Time
	ViewCount    int64
	LikeCount    int64
	CommentCount int64
}

// ScoreTenths 热度分数乘以 10 后的整数值
func ScoreTenths(likes, comments, views int64) int64 {
	if views > ViewCap {
		views = ViewCap
	}
	if views < 0 {
		views = 0
	}
	return likes*LikeWeight + comments*CommentWeight + views*ViewWeight
}

// Score likeCount*3.0 + commentCount*2.0 + min(viewCount, 200)*0.1
func Score(likes, comments, views int64) float64 {
	return float64(ScoreTenths(likes, comments, views)) / 10
}

func (c Candidate) scoreTenths() int64 {
	return ScoreTenths(c.LikeCount, c.CommentCount, c.ViewCount)
}

// Score 当前候选的热度分数
func (c Candidate) Score() float64 {
	return float64(c.scoreTenths()) / 10
}

// newerFirst 创建时间倒序，同一时刻 ID 大的在前
func newerFirst(a, b Candidate) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.PostID > b.PostID
}

func less(s Strategy) func(a, b Candidate) bool {
	switch s {
	case Hot:
		return func(a, b Candidate) bool {
			if sa, sb := a.scoreTenths(), b.scoreTenths(); sa != sb {
				return sa > sb
			}
			return newerFirst(a, b)
		}
	case Discussed:
		return func(a, b Candidate) bool {
			if a.CommentCount != b.CommentCount {
				return a.CommentCount > b.CommentCount
			}
			return newerFirst(a, b)
		}
	default:
		return newerFirst
	}
}

// Sort 按策略原地排序，比较链最终落到 PostID，结果是全序的
func Sort(candidates []Candidate, s Strategy) {
	cmp := less(s)
	sort.SliceStable(candidates, func(i, j int) bool {
		return cmp(candidates[i], candidates[j])
	})
}

// TopK 按热度排序后取前 k 个
func TopK(candidates []Candidate, k int) []Candidate {
	Sort(candidates, Hot)
	if k < len(candidates) {
		candidates = candidates[:k]
	}
	return candidates
}

// Offset 第 page 页的起始下标，参数非法或乘积溢出 int 时 ok 为 false
func Offset(page, limit int) (offset int, ok bool) {
	if page < 1 || limit < 1 {
		return 0, false
	}
	if page-1 > (math.MaxInt-limit)/limit {
		return 0, false
	}
	return (page - 1) * limit, true
}

// Paginate 返回第 page 页，越界时返回空切片
func Paginate(candidates []Candidate, page, limit int) []Candidate {
	offset, ok := Offset(page, limit)
	if !ok || offset >= len(candidates) {
		return []Candidate{}
	}
	end := offset + limit
	if end > len(candidates) {
		end = len(candidates)
	}
	return candidates[offset:end]
}
