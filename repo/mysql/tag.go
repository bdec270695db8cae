package mysql

import (
	"context"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Xushengqwer/blog_service/models/entities"
)

// TagRepository 定义了标签数据在 MySQL 中的持久化操作接口。
type TagRepository interface {
	// ConnectOrCreateTags 按名称查找或创建标签，返回与 names 顺序一致的实体。
	// - names 必须已去重；重复名称会导致关联表主键冲突
	// - db 参数允许传入事务 tx，与文章写入处于同一事务
	ConnectOrCreateTags(ctx context.Context, db *gorm.DB, names []string) ([]entities.Tag, error)

	// ReplacePostTags 全量替换文章的标签集合。
	// - tags 为空切片时清空文章的所有标签
	// - 被解除关联的标签行本身保留，计数由 ListTagsWithCount 实时推导
	ReplacePostTags(ctx context.Context, db *gorm.DB, post *entities.Post, tags []entities.Tag) error

	// ListTagsWithCount 列出全部标签及其关联文章数，按文章数降序。
	// - 计数覆盖未删除的全部文章（含草稿），保证编辑视角下标签计数不漏掉未发布的关联
	// - 没有任何关联文章的标签计数为 0
	ListTagsWithCount(ctx context.Context) ([]entities.Tag, error)
}

type tagRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewTagRepository 是 tagRepository 的构造函数。
func NewTagRepository(db *gorm.DB, logger *core.ZapLogger) TagRepository {
	return &tagRepository{
		db:     db,
		logger: logger,
	}
}

// ConnectOrCreateTags 实现标签的查找或创建。
// 先用 ON CONFLICT DO NOTHING 批量补齐缺失的标签行，再按名称读回完整实体，
// 避免逐名称 round-trip。
func (r *tagRepository) ConnectOrCreateTags(ctx context.Context, db *gorm.DB, names []string) ([]entities.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}

	rows := make([]entities.Tag, 0, len(names))
	for _, name := range names {
		rows = append(rows, entities.Tag{Name: name})
	}

	// name 列上的唯一索引保证并发创建同名标签时只有一行落库。
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		r.logger.Error("批量创建标签失败", zap.Error(err), zap.Strings("names", names))
		return nil, err
	}

	// DoNothing 不回填已存在行的 ID，统一读回。
	var tags []entities.Tag
	if err := db.WithContext(ctx).Where("name IN ?", names).Find(&tags).Error; err != nil {
		r.logger.Error("读回标签实体失败", zap.Error(err), zap.Strings("names", names))
		return nil, err
	}

	// 按入参顺序返回，保持响应中标签顺序与请求一致。
	byName := make(map[string]entities.Tag, len(tags))
	for _, t := range tags {
		byName[t.Name] = t
	}
	ordered := make([]entities.Tag, 0, len(names))
	for _, name := range names {
		if t, ok := byName[name]; ok {
			ordered = append(ordered, t)
		}
	}
	return ordered, nil
}

// ReplacePostTags 实现文章标签集合的全量替换。
func (r *tagRepository) ReplacePostTags(ctx context.Context, db *gorm.DB, post *entities.Post, tags []entities.Tag) error {
	err := db.WithContext(ctx).Model(post).Association("Tags").Replace(tags)
	if err != nil {
		r.logger.Error("替换文章标签关联失败",
			zap.Error(err),
			zap.Uint64("postID", post.ID),
			zap.Int("tagCount", len(tags)),
		)
		return err
	}
	return nil
}

// tagPostCountJoin 是标签计数对 posts 表的关联条件。
// 只排除软删除的文章，不按发布状态过滤: 草稿也计入标签的关联文章数。
const tagPostCountJoin = "LEFT JOIN posts ON posts.id = post_tags.post_id AND posts.deleted_at IS NULL"

// ListTagsWithCount 实现带实时文章计数的标签列表。
// 计数在查询时推导而非冗余存储，文章增删或改标签后无需维护计数列。
func (r *tagRepository) ListTagsWithCount(ctx context.Context) ([]entities.Tag, error) {
	var tags []entities.Tag
	err := r.db.WithContext(ctx).
		Model(&entities.Tag{}).
		Select("tags.*, COUNT(posts.id) AS post_count").
		Joins("LEFT JOIN post_tags ON post_tags.tag_id = tags.id").
		Joins(tagPostCountJoin).
		Group("tags.id").
		Order("post_count DESC").Order("tags.name ASC").
		Find(&tags).Error
	if err != nil {
		r.logger.Error("查询标签列表及文章计数失败", zap.Error(err))
		return nil, err
	}
	return tags, nil
}
