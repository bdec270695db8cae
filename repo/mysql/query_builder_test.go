package mysql

import (
	"strings"
	"testing"
	"time"
)

func TestNormalizeSearchQuery(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  string
	}{
		{"小写与去空白", "  Hello World  ", "hello world"},
		{"标点替换为空格", "go, mysql & redis!", "go mysql redis"},
		{"连续空白折叠", "a    b\t\nc", "a b c"},
		{"下划线保留", "snake_case token", "snake_case token"},
		{"纯标点", "?!...,", ""},
		{"空输入", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeSearchQuery(tc.query)
			if got != tc.want {
				t.Errorf("NormalizeSearchQuery(%q) = %q, want %q", tc.query, got, tc.want)
			}
			// 幂等性: 清洗结果再清洗一次应保持不变
			if again := NormalizeSearchQuery(got); again != got {
				t.Errorf("NormalizeSearchQuery 不幂等: %q -> %q", got, again)
			}
		})
	}
}

func TestBuildTextSearchPredicate(t *testing.T) {
	t.Run("带搜索词且仅已发布", func(t *testing.T) {
		pred := BuildTextSearchPredicate("Hello, World!", true)
		if len(pred.Conds) != 2 {
			t.Fatalf("期望 2 个条件, 得到 %d", len(pred.Conds))
		}
		if pred.Conds[0].Expr != "published = ?" {
			t.Errorf("第一个条件应为发布状态约束, 得到 %q", pred.Conds[0].Expr)
		}
		matchCond := pred.Conds[1]
		if !strings.Contains(matchCond.Expr, "MATCH(title, excerpt, content)") {
			t.Errorf("缺少全文索引匹配表达式: %q", matchCond.Expr)
		}
		if !strings.Contains(matchCond.Expr, "IN BOOLEAN MODE") {
			t.Errorf("应使用 BOOLEAN MODE: %q", matchCond.Expr)
		}
		if got := matchCond.Args[0]; got != "+hello +world" {
			t.Errorf("布尔模式表达式 = %v, want %q", got, "+hello +world")
		}
	})

	t.Run("空搜索词不加文本约束", func(t *testing.T) {
		pred := BuildTextSearchPredicate("", false)
		if !pred.IsEmpty() {
			t.Errorf("空搜索词应产出空谓词, 得到 %d 个条件", len(pred.Conds))
		}
	})

	t.Run("清洗后为空等同未提供", func(t *testing.T) {
		pred := BuildTextSearchPredicate("!!!", false)
		if !pred.IsEmpty() {
			t.Errorf("纯标点搜索词应产出空谓词, 得到 %d 个条件", len(pred.Conds))
		}
	})

	t.Run("仅发布状态约束", func(t *testing.T) {
		pred := BuildTextSearchPredicate("   ", true)
		if len(pred.Conds) != 1 || pred.Conds[0].Expr != "published = ?" {
			t.Errorf("期望只有发布状态约束, 得到 %+v", pred.Conds)
		}
	})
}

func TestBuildTagAndStatusPredicate(t *testing.T) {
	t.Run("all 状态不加约束", func(t *testing.T) {
		pred := BuildTagAndStatusPredicate(StatusAll, nil, nil)
		if !pred.IsEmpty() {
			t.Errorf("StatusAll 无标签无时间窗口应产出空谓词, 得到 %+v", pred.Conds)
		}
	})

	t.Run("draft 状态", func(t *testing.T) {
		pred := BuildTagAndStatusPredicate(StatusDraft, nil, nil)
		if len(pred.Conds) != 1 {
			t.Fatalf("期望 1 个条件, 得到 %d", len(pred.Conds))
		}
		if pred.Conds[0].Args[0] != false {
			t.Errorf("draft 应约束 published = false, 得到 %v", pred.Conds[0].Args[0])
		}
	})

	t.Run("标签 OR 语义", func(t *testing.T) {
		pred := BuildTagAndStatusPredicate(StatusPublished, []string{"go", "mysql"}, nil)
		if len(pred.Conds) != 2 {
			t.Fatalf("期望 2 个条件, 得到 %d", len(pred.Conds))
		}
		tagCond := pred.Conds[1]
		if !strings.Contains(tagCond.Expr, "EXISTS") || !strings.Contains(tagCond.Expr, "tags.name IN ?") {
			t.Errorf("标签条件应为 EXISTS 子查询: %q", tagCond.Expr)
		}
		names, ok := tagCond.Args[0].([]string)
		if !ok || len(names) != 2 {
			t.Errorf("标签参数 = %v", tagCond.Args[0])
		}
	})

	t.Run("时间窗口两端", func(t *testing.T) {
		from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)
		pred := BuildTagAndStatusPredicate(StatusAll, nil, &DateRange{From: &from, To: &to})
		if len(pred.Conds) != 2 {
			t.Fatalf("期望 2 个条件, 得到 %d", len(pred.Conds))
		}
		if pred.Conds[0].Expr != "created_at >= ?" || pred.Conds[1].Expr != "created_at <= ?" {
			t.Errorf("时间窗口条件不符: %+v", pred.Conds)
		}
	})

	t.Run("单端时间窗口", func(t *testing.T) {
		from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		pred := BuildTagAndStatusPredicate(StatusAll, nil, &DateRange{From: &from})
		if len(pred.Conds) != 1 || pred.Conds[0].Expr != "created_at >= ?" {
			t.Errorf("只给 From 时应只有下界条件: %+v", pred.Conds)
		}
	})
}

// 预先清洗过的搜索词与原始输入构建出完全相同的谓词。
func TestBuildTextSearchPredicateNormalizationIdempotent(t *testing.T) {
	inputs := []string{"Hello, World!", "  go  MYSQL  ", "a_b c-d", "!!!", ""}
	for _, input := range inputs {
		direct := BuildTextSearchPredicate(input, true)
		preNormalized := BuildTextSearchPredicate(NormalizeSearchQuery(input), true)

		if len(direct.Conds) != len(preNormalized.Conds) {
			t.Errorf("输入 %q: 条件数不一致 (%d vs %d)", input, len(direct.Conds), len(preNormalized.Conds))
			continue
		}
		for i := range direct.Conds {
			if direct.Conds[i].Expr != preNormalized.Conds[i].Expr {
				t.Errorf("输入 %q: 表达式不一致", input)
			}
			if len(direct.Conds[i].Args) > 0 && direct.Conds[i].Args[0] != preNormalized.Conds[i].Args[0] {
				t.Errorf("输入 %q: 参数不一致 (%v vs %v)", input, direct.Conds[i].Args[0], preNormalized.Conds[i].Args[0])
			}
		}
	}
}

func TestPredicateAnd(t *testing.T) {
	left := BuildTagAndStatusPredicate(StatusPublished, []string{"go"}, nil)
	right := BuildTextSearchPredicate("concurrency", false)

	combined := left.And(right)
	if len(combined.Conds) != 3 {
		t.Fatalf("期望合并后 3 个条件, 得到 %d", len(combined.Conds))
	}
	// And 不应修改接收者
	if len(left.Conds) != 2 || len(right.Conds) != 1 {
		t.Error("And 修改了原谓词")
	}
}

func TestValidateSearchParams(t *testing.T) {
	strPtr := func(s string) *string { return &s }
	intPtr := func(i int) *int { return &i }

	t.Run("缺省值", func(t *testing.T) {
		result := ValidateSearchParams(nil, nil)
		if !result.Valid {
			t.Errorf("nil 入参应合法, errors = %v", result.Errors)
		}
		if result.SanitizedLimit != 10 {
			t.Errorf("缺省 limit = %d, want 10", result.SanitizedLimit)
		}
		if result.SanitizedQuery != "" {
			t.Errorf("缺省 query = %q, want 空串", result.SanitizedQuery)
		}
	})

	t.Run("query 去首尾空白", func(t *testing.T) {
		result := ValidateSearchParams(strPtr("  hello  "), nil)
		if !result.Valid || result.SanitizedQuery != "hello" {
			t.Errorf("result = %+v", result)
		}
	})

	t.Run("query 超长", func(t *testing.T) {
		long := strings.Repeat("a", 101)
		result := ValidateSearchParams(&long, nil)
		if result.Valid || len(result.Errors) != 1 {
			t.Errorf("超长 query 应记为错误, result = %+v", result)
		}
	})

	t.Run("query 恰好 100 字符合法", func(t *testing.T) {
		exact := strings.Repeat("a", 100)
		if result := ValidateSearchParams(&exact, nil); !result.Valid {
			t.Errorf("100 字符 query 应合法, errors = %v", result.Errors)
		}
	})

	t.Run("按字符数而非字节数计长", func(t *testing.T) {
		// 100 个多字节字符，字节数远超 100
		wide := strings.Repeat("数", 100)
		if result := ValidateSearchParams(&wide, nil); !result.Valid {
			t.Errorf("100 个多字节字符应合法, errors = %v", result.Errors)
		}
	})

	t.Run("limit 越界钳制", func(t *testing.T) {
		result := ValidateSearchParams(nil, intPtr(0))
		if result.Valid {
			t.Error("limit=0 应记为错误")
		}
		if result.SanitizedLimit != 1 {
			t.Errorf("limit=0 钳制为 %d, want 1", result.SanitizedLimit)
		}

		result = ValidateSearchParams(nil, intPtr(999))
		if result.Valid {
			t.Error("limit=999 应记为错误")
		}
		if result.SanitizedLimit != 50 {
			t.Errorf("limit=999 钳制为 %d, want 50", result.SanitizedLimit)
		}
	})

	t.Run("limit 合法边界", func(t *testing.T) {
		for _, limit := range []int{1, 25, 50} {
			result := ValidateSearchParams(nil, intPtr(limit))
			if !result.Valid || result.SanitizedLimit != limit {
				t.Errorf("limit=%d 应原样通过, result = %+v", limit, result)
			}
		}
	})

	t.Run("多个错误同时累积", func(t *testing.T) {
		long := strings.Repeat("a", 200)
		result := ValidateSearchParams(&long, intPtr(-1))
		if result.Valid || len(result.Errors) != 2 {
			t.Errorf("应累积 2 个错误, result = %+v", result)
		}
	})
}
