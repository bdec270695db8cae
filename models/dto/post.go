package dto

// CreatePostRequest 定义了创建文章的请求体。
// - 校验规则与前端编辑器的表单校验保持一致，binding 标签在控制器绑定时生效
type CreatePostRequest struct {
	// 标题，必填，2~100 个字符
	Title string `json:"title" binding:"required,min=2,max=100"`

	// 内容，Markdown 原文，必填，10~5000 个字符
	Content string `json:"content" binding:"required,min=10,max=5000"`

	// 摘要，必填，2~200 个字符
	Excerpt string `json:"excerpt" binding:"required,min=2,max=200"`

	// 封面图 URL，可选；提供时必须是合法 URL
	CoverImage *string `json:"coverImage" binding:"omitempty,url"`

	// Slug，可选；不提供或为空串时由标题派生
	// - 仅允许小写字母、数字和连字符，最长 120 字符
	Slug *string `json:"slug" binding:"omitempty,min=1,max=120"`

	// 是否直接发布，缺省为 false（草稿）
	Published bool `json:"published"`

	// 标签名列表，缺省为空；不存在的标签名会被隐式创建
	Tags []string `json:"tags" binding:"omitempty,dive,min=1,max=64"`
}

// MutatePostRequest 定义了更新文章的请求体。
// - 所有字段均可选，nil 表示不更新对应字段
// - 同一个接口同时承担重命名（title/slug）和发布/下线（published）操作，
//   没有独立的 publish 接口
type MutatePostRequest struct {
	Title   *string `json:"title" binding:"omitempty,min=2,max=100"`
	Content *string `json:"content" binding:"omitempty,min=10,max=5000"`
	Excerpt *string `json:"excerpt" binding:"omitempty,min=2,max=200"`

	// 封面图 URL；提供非空值时必须是合法 URL
	// 注意与"不更新"区分：提供空串表示清除封面（omitempty 跳过空串的 url 校验）
	CoverImage *string `json:"coverImage" binding:"omitempty,url"`

	// 显式指定新 slug；与当前值相同视为未变更
	// - 未提供时，若标题变更则由新标题重新派生 slug
	Slug *string `json:"slug" binding:"omitempty,min=1,max=120"`

	// 发布状态切换；false→true 写入发布时间，true→false 清空
	Published *bool `json:"published"`

	// 标签名列表；提供时整体替换现有关联（传空数组会清空所有标签）
	Tags *[]string `json:"tags" binding:"omitempty,dive,min=1,max=64"`
}
