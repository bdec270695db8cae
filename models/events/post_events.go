package events

import "time"

// 本包定义博客服务对外发布的 Kafka 事件结构。
// 事件结构一旦上线就属于对下游的契约，只允许向后兼容地新增字段。

// PostEventData 事件中携带的文章核心数据快照。
// - 下游（如邮件投递、站外搜索同步）只依赖这些字段，不需要回查数据库
type PostEventData struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	AuthorID    string     `json:"author_id"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// PostPublishedEvent 文章发布事件。
// - 在创建即发布、或草稿转为发布成功提交之后发送
type PostPublishedEvent struct {
	EventID   string        `json:"event_id"`  // 事件唯一ID，供下游幂等去重
	Timestamp time.Time     `json:"timestamp"` // 事件产生时间
	Post      PostEventData `json:"post"`
}

// PostDeletedEvent 文章删除事件。
type PostDeletedEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	PostID    uint64    `json:"post_id"`
	Slug      string    `json:"slug"`
}
