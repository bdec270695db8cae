package utils

import (
	"strings"
	"unicode"
)

// WordsPerMinute 阅读时长估算用的每分钟单词数。
const WordsPerMinute = 200

// Slugify 从标题派生 URL slug。
// 规则: 小写、去首尾空白、丢弃字母/数字/空白/连字符以外的字符、
// 空白替换为连字符、连续连字符折叠、去掉首尾连字符。
// 例: "Hello, World!" -> "hello-world"
func Slugify(title string) string {
	lowered := strings.ToLower(strings.TrimSpace(title))

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			b.WriteByte('-')
		default:
			// 标点等特殊字符直接丢弃
		}
	}

	slug := b.String()
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}
	return strings.Trim(slug, "-")
}

// IsValidSlug 校验显式传入的 slug 是否合法:
// 小写字母/数字组成的段，段之间用单个连字符连接。
func IsValidSlug(slug string) bool {
	if slug == "" || len(slug) > 120 {
		return false
	}
	segments := strings.Split(slug, "-")
	for _, seg := range segments {
		if seg == "" {
			return false // 首尾或连续的连字符
		}
		for _, r := range seg {
			if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
				return false
			}
		}
	}
	return true
}

// CalculateReadTime 根据内容单词数估算阅读时长（分钟），向上取整，至少 1 分钟。
// 与前端编辑器展示的估算逻辑保持一致: ceil(wordCount / 200)。
func CalculateReadTime(content string) int {
	wordCount := len(strings.Fields(content))
	if wordCount == 0 {
		return 1
	}
	minutes := (wordCount + WordsPerMinute - 1) / WordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
