package entities

import (
	"time"

	"github.com/Xushengqwer/go-common/models/entities"
)

// Post 博客文章实体
// - 使用场景: 博客的核心实体，公开列表页、详情页和作者管理页共用同一张表
// - 表名: posts (GORM 默认使用结构体名复数形式)
// - 全文检索: title / excerpt / content 三列上建有 FULLTEXT 联合索引 (见 dependencies.InitMySQL)，
//   列表搜索使用 MATCH ... AGAINST (BOOLEAN MODE)，而不是 LIKE 模糊匹配
type Post struct {
	entities.BaseModel // 嵌入自定义的 BaseModel ,包含 ID, CreatedAt, UpdatedAt, DeletedAt，支持软删除

	// 标题，必填，2~100 个字符（长度校验在 DTO 层完成）
	// - 类型: varchar(255)，限制长度以提高查询效率
	Title string `gorm:"type:varchar(255);not null"`

	// Slug，文章的 URL 标识，全局唯一
	// - 类型: varchar(120)，仅允许小写字母、数字和连字符
	// - GORM 标签: uniqueIndex 是并发创建下 slug 唯一性的最后一道防线；
	//   服务层的预检查存在 check-then-insert 竞态窗口，真正兜底的是这里的唯一索引
	Slug string `gorm:"type:varchar(120);uniqueIndex;not null"`

	// 摘要，列表页展示用的简介，2~200 个字符
	Excerpt string `gorm:"type:varchar(255);not null"`

	// 内容，Markdown 原文，10~5000 个字符
	// - 类型: text，渲染为 HTML 的工作由前端完成，服务端只存原文
	Content string `gorm:"type:text;not null"`

	// 封面图 URL，可选
	// - 类型: varchar(512)，为 nil 表示没有封面
	CoverImage *string `gorm:"type:varchar(512)"`

	// 预计阅读时长（分钟），派生字段
	// - 计算规则: ceil(内容单词数 / 200)，内容每次变更时由服务层重算
	// - 注意: 该字段不接受客户端直接写入
	ReadTimeMin int `gorm:"type:int;not null;default:1"`

	// 是否已发布，false 表示草稿
	// - 草稿仍然可以通过 slug 直接访问（作者预览场景），但不会出现在公开列表里
	Published bool `gorm:"type:tinyint(1);not null;default:0;index"`

	// 发布时间
	// - 从草稿转为发布时写入当前时间；取消发布时清空
	// - 注意: 重新发布会覆盖为新的时间戳，历史发布时间不保留
	PublishedAt *time.Time `gorm:"type:datetime(3);index"`

	// 作者ID，关联用户服务，创建后不可变更
	// - 类型: char(36)，用户ID为UUID格式（36个字符）
	// - 修改/删除前服务层都会校验该字段与当前调用者是否一致
	AuthorID string `gorm:"type:char(36);not null;index"`

	// 浏览量，统计文章的浏览次数
	// - 实时计数在 Redis 中累加，由定时任务批量回写到该列
	ViewCount int64 `gorm:"type:bigint;default:0"`

	// 标签，多对多关系，中间表 post_tags
	// - 更新文章时传入 tags 列表是整体替换语义，不是增量合并
	// - 删除文章不会级联删除标签，孤儿标签允许存在
	Tags []Tag `gorm:"many2many:post_tags;"`
}
