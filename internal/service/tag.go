package service

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MaxTagLength   = 15
	MaxTagsPerPost = 5
)

func isTagRune(r rune) bool {
	return unicode.IsLetter(r) || (r >= '0' && r <= '9') || r == '_' || r == '-'
}

// NormalizeTag 去除首尾空白并转为小写，只允许字母、数字、下划线与连字符
func NormalizeTag(raw string) (string, error) {
	tag := strings.ToLower(strings.TrimSpace(raw))
	if tag == "" || utf8.RuneCountInString(tag) > MaxTagLength {
		return "", ErrInvalidTag
	}
	for _, r := range tag {
		if !isTagRune(r) {
			return "", ErrInvalidTag
		}
	}
	return tag, nil
}

// NormalizeTags 规范化标签列表，保持首次出现的顺序并静默丢弃重复项
// 忽略大小写后仍超过 5 个不同的非空输入直接拒绝，空白项交给 NormalizeTag 报 invalid_tag，规范化之后再检查一次
func NormalizeTags(raw []string) ([]string, error) {
	distinct := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		folded := strings.ToLower(strings.TrimSpace(r))
		if folded == "" {
			continue
		}
		distinct[folded] = struct{}{}
	}
	if len(distinct) > MaxTagsPerPost {
		return nil, ErrTooManyTags
	}

	seen := make(map[string]struct{}, len(raw))
	tags := make([]string, 0, len(raw))
	for _, r := range raw {
		tag, err := NormalizeTag(r)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	if len(tags) > MaxTagsPerPost {
		return nil, ErrTooManyTags
	}
	return tags, nil
}
