package entities

import "github.com/Xushengqwer/go-common/models/entities"

// Newsletter 订阅者实体
// - 使用场景: 博客的邮件订阅名单，新文章发布时由 Kafka 消费者读取并触发投递
type Newsletter struct {
	entities.BaseModel // 嵌入自定义的 BaseModel ,包含 ID, CreatedAt, UpdatedAt, DeletedAt

	// 订阅邮箱，全局唯一，重复订阅直接报冲突
	Email string `gorm:"type:varchar(255);uniqueIndex;not null"`
}
