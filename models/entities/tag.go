package entities

import "github.com/Xushengqwer/go-common/models/entities"

// Tag 标签实体
// - 使用场景: 文章的分类标记，通过中间表 post_tags 与 Post 多对多关联
// - 生命周期: 创建走 connect-or-create（文章引用了不存在的标签名时隐式创建）；
//   文章操作永远不会删除标签，允许出现没有任何文章引用的孤儿标签
type Tag struct {
	entities.BaseModel // 嵌入自定义的 BaseModel ,包含 ID, CreatedAt, UpdatedAt, DeletedAt

	// 标签名，全局唯一
	// - 类型: varchar(64)
	// - uniqueIndex 兜底并发下同名标签的 connect-or-create 竞态
	Name string `gorm:"type:varchar(64);uniqueIndex;not null"`

	// 反向关联，仅用于声明多对多关系，查询时按需 Preload
	Posts []Post `gorm:"many2many:post_tags;"`

	// 文章数，只读派生列（查询时由 COUNT 填充，不落库）
	PostCount int64 `gorm:"->;-:migration" json:"post_count"`
}
