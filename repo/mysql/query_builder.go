package mysql

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"gorm.io/gorm"
)

// 本文件是列表查询的谓词构建层：把不可信的用户筛选输入翻译为
// 结构化的 SQL 条件。这里只产出 Predicate，绝不执行查询，
// 因此所有函数都是纯函数，可以脱离数据库做单元测试。

// PostStatus 列表接口的发布状态筛选值。
type PostStatus string

const (
	StatusAll       PostStatus = "all"       // 不加发布状态约束
	StatusPublished PostStatus = "published" // 仅已发布
	StatusDraft     PostStatus = "draft"     // 仅草稿
)

// DateRange 按创建时间筛选的时间窗口，任一端可以为 nil。
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Condition 单个 SQL 条件片段及其参数。
type Condition struct {
	Expr string
	Args []interface{}
}

// Predicate 一组以 AND 组合的查询条件。
// - 零值 Predicate 表示"无约束"，应用到查询上是合法的空操作
type Predicate struct {
	Conds []Condition
}

// IsEmpty 返回该谓词是否不包含任何条件。
func (p Predicate) IsEmpty() bool {
	return len(p.Conds) == 0
}

// And 返回两个谓词的 AND 组合，不修改接收者。
func (p Predicate) And(other Predicate) Predicate {
	merged := make([]Condition, 0, len(p.Conds)+len(other.Conds))
	merged = append(merged, p.Conds...)
	merged = append(merged, other.Conds...)
	return Predicate{Conds: merged}
}

// Apply 将谓词中的所有条件施加到 GORM 查询上。
func (p Predicate) Apply(db *gorm.DB) *gorm.DB {
	query := db
	for _, cond := range p.Conds {
		query = query.Where(cond.Expr, cond.Args...)
	}
	return query
}

// NormalizeSearchQuery 清洗用户输入的搜索词:
// 去首尾空白、转小写、把字母/数字/下划线/空白以外的字符替换为空格、折叠连续空白。
// 该函数是幂等的：对已清洗的结果再清洗一次得到相同输出。
func NormalizeSearchQuery(query string) string {
	lowered := strings.ToLower(strings.TrimSpace(query))

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	// 以空白切词再拼回，顺带完成折叠和去空 token
	return strings.Join(strings.Fields(b.String()), " ")
}

// buildBooleanModeQuery 把清洗后的搜索词转成 MySQL BOOLEAN MODE 表达式。
// 每个 token 前加 "+" 表示必须命中（词袋 AND，不是短语匹配）:
// "hello world" -> "+hello +world"。
func buildBooleanModeQuery(normalized string) string {
	if normalized == "" {
		return ""
	}
	tokens := strings.Fields(normalized)
	var b strings.Builder
	for i, tok := range tokens {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('+')
		b.WriteString(tok)
	}
	return b.String()
}

// BuildTextSearchPredicate 构建全文搜索谓词。
// - query 为空或清洗后为空（例如输入全是标点）时不加文本约束，
//   等同于"未提供搜索词"，而不是一个永远不命中的条件
// - publishedOnly 为 true 时追加发布状态约束
// - 文本匹配依赖 title/excerpt/content 上的 FULLTEXT 联合索引，
//   两个词只要各自出现在任意字段即命中，无需相邻
func BuildTextSearchPredicate(query string, publishedOnly bool) Predicate {
	var pred Predicate

	if publishedOnly {
		pred.Conds = append(pred.Conds, Condition{
			Expr: "published = ?",
			Args: []interface{}{true},
		})
	}

	booleanQuery := buildBooleanModeQuery(NormalizeSearchQuery(query))
	if booleanQuery != "" {
		pred.Conds = append(pred.Conds, Condition{
			Expr: "MATCH(title, excerpt, content) AGAINST (? IN BOOLEAN MODE)",
			Args: []interface{}{booleanQuery},
		})
	}

	return pred
}

// BuildTagAndStatusPredicate 构建标签/状态/时间窗口的组合谓词。
// - status: published 强制 published = true；draft 强制 false；all 不加约束
// - tags 非空时要求文章至少命中其中一个标签名（OR 语义）
// - dateRange 约束 created_at 落在 [From, To] 内，两端都给时取 AND
func BuildTagAndStatusPredicate(status PostStatus, tags []string, dateRange *DateRange) Predicate {
	var pred Predicate

	switch status {
	case StatusPublished:
		pred.Conds = append(pred.Conds, Condition{Expr: "published = ?", Args: []interface{}{true}})
	case StatusDraft:
		pred.Conds = append(pred.Conds, Condition{Expr: "published = ?", Args: []interface{}{false}})
	}

	if len(tags) > 0 {
		pred.Conds = append(pred.Conds, Condition{
			Expr: "EXISTS (SELECT 1 FROM post_tags JOIN tags ON tags.id = post_tags.tag_id " +
				"WHERE post_tags.post_id = posts.id AND tags.name IN ?)",
			Args: []interface{}{tags},
		})
	}

	if dateRange != nil {
		if dateRange.From != nil {
			pred.Conds = append(pred.Conds, Condition{Expr: "created_at >= ?", Args: []interface{}{*dateRange.From}})
		}
		if dateRange.To != nil {
			pred.Conds = append(pred.Conds, Condition{Expr: "created_at <= ?", Args: []interface{}{*dateRange.To}})
		}
	}

	return pred
}

// SearchParamsResult ValidateSearchParams 的校验结果。
type SearchParamsResult struct {
	Valid          bool
	Errors         []string
	SanitizedQuery string // 去掉首尾空白后的搜索词
	SanitizedLimit int    // 钳制到 [1,50] 后的每页数量，缺省 10
}

// ValidateSearchParams 校验搜索参数，不抛错、不修改输入。
// - query 超过 100 字符记为错误
// - limit 超出 [1,50] 记为错误，同时给出钳制后的值；nil 使用默认值 10
func ValidateSearchParams(query *string, limit *int) SearchParamsResult {
	result := SearchParamsResult{SanitizedLimit: 10}

	if query != nil {
		if utf8.RuneCountInString(*query) > 100 {
			result.Errors = append(result.Errors, "Search query is too long (max 100 characters)")
		}
		result.SanitizedQuery = strings.TrimSpace(*query)
	}

	if limit != nil {
		if *limit < 1 || *limit > 50 {
			result.Errors = append(result.Errors, "Limit must be between 1 and 50")
		}
		clamped := *limit
		if clamped < 1 {
			clamped = 1
		}
		if clamped > 50 {
			clamped = 50
		}
		result.SanitizedLimit = clamped
	}

	result.Valid = len(result.Errors) == 0
	return result
}
