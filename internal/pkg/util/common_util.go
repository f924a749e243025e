package util

import (
	"strconv"
	"strings"
	"time"
)

// ParseID 解析路径中的正整数 ID
func ParseID(raw string) (uint64, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// UniqueUint64 去重并保持原有顺序
func UniqueUint64(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// PtrString 用于将 string 转换为 *string
func PtrString(s string) *string {
	return &s
}

// DerefString nil 时返回空串
func DerefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// GetMidnight 返回 t 所在日期的零点
func GetMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
