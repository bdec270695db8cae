package utils

import (
	"strings"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name  string
		title string
		want  string
	}{
		{"标点被丢弃", "Hello, World!", "hello-world"},
		{"大小写归一", "Go In Production", "go-in-production"},
		{"首尾空白", "  Spaces Around  ", "spaces-around"},
		{"连续空白折叠", "a   b\t c", "a-b-c"},
		{"下划线转连字符", "snake_case_title", "snake-case-title"},
		{"已有连字符保留", "already-a-slug", "already-a-slug"},
		{"数字保留", "Top 10 Tips 2024", "top-10-tips-2024"},
		{"纯标点得到空串", "!!!???", ""},
		{"空输入", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Slugify(tc.title); got != tc.want {
				t.Errorf("Slugify(%q) = %q, want %q", tc.title, got, tc.want)
			}
		})
	}
}

func TestIsValidSlug(t *testing.T) {
	valid := []string{"hello", "hello-world", "top-10-tips", "a", "1-2-3"}
	for _, slug := range valid {
		if !IsValidSlug(slug) {
			t.Errorf("IsValidSlug(%q) = false, want true", slug)
		}
	}

	invalid := []string{
		"",
		"-leading",
		"trailing-",
		"double--hyphen",
		"Upper-Case",
		"with space",
		"under_score",
		"中文slug",
		strings.Repeat("a", 121),
	}
	for _, slug := range invalid {
		if IsValidSlug(slug) {
			t.Errorf("IsValidSlug(%q) = true, want false", slug)
		}
	}

	// 恰好 120 字符仍合法
	if !IsValidSlug(strings.Repeat("a", 120)) {
		t.Error("IsValidSlug 应接受长度恰好 120 的 slug")
	}
}

func TestCalculateReadTime(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    int
	}{
		{"空内容至少 1 分钟", "", 1},
		{"少量单词向上取整到 1", "just a few words", 1},
		{"恰好 200 词", strings.Repeat("word ", 200), 1},
		{"201 词进位到 2", strings.Repeat("word ", 201), 2},
		{"600 词", strings.Repeat("word ", 600), 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CalculateReadTime(tc.content); got != tc.want {
				t.Errorf("CalculateReadTime = %d, want %d", got, tc.want)
			}
		})
	}
}
