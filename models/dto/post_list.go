package dto

import "time"

// ListPostsRequestDTO 定义了游标分页列表接口的公共查询参数。
// - listPublished 和 listAll 共用这一组参数
type ListPostsRequestDTO struct {
	// Limit 每页数量。
	// - 从URL查询参数 "limit" 获取。
	// - binding:"omitempty,gte=1,lte=50": 可选，值必须在1到50之间；缺省为 10
	Limit int `form:"limit" binding:"omitempty,gte=1,lte=50"`

	// Cursor 上一页最后一条记录的文章ID，用于游标分页。
	// - 从URL查询参数 "cursor" 获取，首页省略
	Cursor *uint64 `form:"cursor" binding:"omitempty,gte=1"`

	// Query 全文搜索关键词。
	// - 从URL查询参数 "query" 获取。
	// - binding:"omitempty,max=100": 可选，超过100字符直接拒绝
	Query *string `form:"query" binding:"omitempty,max=100"`
}

// EffectiveLimit 返回生效的每页数量，未提供时回落到默认值 10。
func (d *ListPostsRequestDTO) EffectiveLimit() int {
	if d.Limit <= 0 {
		return 10
	}
	return d.Limit
}

// ListWithFiltersRequestDTO 定义了条件筛选列表接口的查询参数。
// - 标签筛选、状态筛选、时间窗口和全文搜索可以任意组合（条件之间取 AND）
type ListWithFiltersRequestDTO struct {
	Limit  int     `form:"limit" binding:"omitempty,gte=1,lte=50"`
	Cursor *uint64 `form:"cursor" binding:"omitempty,gte=1"`

	// Status 发布状态: all（缺省）/ published / draft
	Status string `form:"status" binding:"omitempty,oneof=all published draft"`

	// Tags 标签名列表，命中任意一个即通过（OR 语义）
	// - 形如 ?tags=go&tags=gin
	Tags []string `form:"tags" binding:"omitempty,dive,min=1,max=64"`

	// From / To 按创建时间筛选的闭区间，RFC3339 格式
	From *time.Time `form:"from" binding:"omitempty"`
	To   *time.Time `form:"to" binding:"omitempty"`

	// Query 可选的全文搜索关键词，与其余条件 AND 组合
	Query *string `form:"query" binding:"omitempty,max=100"`
}

// EffectiveLimit 返回生效的每页数量，未提供时回落到默认值 10。
func (d *ListWithFiltersRequestDTO) EffectiveLimit() int {
	if d.Limit <= 0 {
		return 10
	}
	return d.Limit
}

// EffectiveStatus 返回生效的状态筛选值，未提供时视为 "all"。
func (d *ListWithFiltersRequestDTO) EffectiveStatus() string {
	if d.Status == "" {
		return "all"
	}
	return d.Status
}
