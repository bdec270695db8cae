package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/blog_service/models/entities"
	"github.com/Xushengqwer/blog_service/myErrors"
)

// isDuplicateEntry 判断是否 MySQL 唯一索引冲突（错误码 1062）。
// posts 表上唯一索引只有 slug 列，命中 1062 即 slug 冲突:
// SlugExists 预检查放过的并发写在仓库层兜底收口为业务错误，不透传驱动错误。
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}

// PostOrder 列表排序键。
// - 公开列表按发布时间排，管理/筛选列表按创建时间排
// - 相同时间戳时一律以 id 作为次级排序键，保证翻页不重不漏
type PostOrder int

const (
	OrderByCreatedAt   PostOrder = iota // created_at DESC, id DESC
	OrderByPublishedAt                  // published_at DESC, id DESC
)

// PostRepository 定义了文章数据在 MySQL 中的持久化操作接口。
// 接口的设计旨在将数据访问逻辑与业务逻辑（服务层）解耦。
type PostRepository interface {
	// CreatePost 持久化一篇新文章（含标签关联）。
	// - db 参数允许传入事务对象 tx，创建与标签关联在同一事务内完成
	// - slug 唯一索引冲突返回 myErrors.ErrSlugConflict
	CreatePost(ctx context.Context, db *gorm.DB, post *entities.Post) error

	// GetPostByID 根据主键检索文章，附带标签。
	// - 未找到时返回 commonerrors.ErrRepoNotFound
	GetPostByID(ctx context.Context, id uint64) (*entities.Post, error)

	// GetPostBySlug 根据 slug 检索文章，附带标签。
	// - 不做发布状态过滤：草稿通过 slug 直连可读，这是作者预览的设计行为
	// - 未找到时返回 commonerrors.ErrRepoNotFound
	GetPostBySlug(ctx context.Context, slug string) (*entities.Post, error)

	// SlugExists 检查 slug 是否已被 excludeID 之外的文章占用。
	// - excludeID 为 0 表示不排除任何文章（创建场景）
	// - 这是应用层预检查；并发兜底依赖 slug 列上的唯一索引
	SlugExists(ctx context.Context, slug string, excludeID uint64) (bool, error)

	// ListPostsByCursor 实现谓词筛选 + 游标分页的文章列表查询。
	// - pred: 由 query_builder 产出的筛选谓词
	// - order: 排序键（次级排序固定为 id DESC）
	// - cursor: 上一页最后一条的文章 ID，nil 表示首页
	// - 返回 ([]*entities.Post, *uint64, error): 当前页（长度 ≤ limit）, 下一页游标, 错误
	ListPostsByCursor(ctx context.Context, pred Predicate, order PostOrder, cursor *uint64, limit int) ([]*entities.Post, *uint64, error)

	// UpdatePostFields 按字段 map 更新文章，总是附带刷新 updated_at。
	// - updates 为空 map 时仅刷新 updated_at，用于只改关联关系也要推进行时间戳的场景
	// - 标签关联的替换不走这里，见 TagRepository.ReplacePostTags
	// - slug 唯一索引冲突返回 myErrors.ErrSlugConflict
	// - 未命中行时返回 commonerrors.ErrRepoNotFound
	UpdatePostFields(ctx context.Context, db *gorm.DB, postID uint64, updates map[string]interface{}) error

	// DeletePost 对指定文章执行软删除。
	// - 标签行永远不会被级联删除
	DeletePost(ctx context.Context, db *gorm.DB, id uint64) error
}

// postRepository 是 PostRepository 接口针对 MySQL 的具体实现。
type postRepository struct {
	db     *gorm.DB        // GORM 数据库实例
	logger *core.ZapLogger // 日志记录器实例
}

// NewPostRepository 是 postRepository 的构造函数。
func NewPostRepository(db *gorm.DB, logger *core.ZapLogger) PostRepository {
	return &postRepository{
		db:     db,
		logger: logger,
	}
}

// CreatePost 实现文章的数据库插入操作。
func (r *postRepository) CreatePost(ctx context.Context, db *gorm.DB, post *entities.Post) error {
	// 使用传入的 db 对象（通常是事务 tx）执行插入。
	// GORM 会自动处理 BaseModel 中的 CreatedAt / UpdatedAt，并级联写入 Tags 关联。
	if err := db.WithContext(ctx).Create(post).Error; err != nil {
		if isDuplicateEntry(err) {
			r.logger.Warn("创建文章命中 slug 唯一索引冲突", zap.String("slug", post.Slug))
			return myErrors.ErrSlugConflict
		}
		return err
	}
	return nil
}

// GetPostByID 实现根据主键获取文章。
func (r *postRepository) GetPostByID(ctx context.Context, id uint64) (*entities.Post, error) {
	var post entities.Post
	err := r.db.WithContext(ctx).Preload("Tags").First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Warn("根据 ID 获取文章未找到", zap.Uint64("postID", id))
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据 ID 获取文章数据库查询失败", zap.Uint64("postID", id), zap.Error(err))
		return nil, err
	}
	return &post, nil
}

// GetPostBySlug 实现根据 slug 获取文章。
func (r *postRepository) GetPostBySlug(ctx context.Context, slug string) (*entities.Post, error) {
	var post entities.Post
	err := r.db.WithContext(ctx).Preload("Tags").Where("slug = ?", slug).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Warn("根据 slug 获取文章未找到", zap.String("slug", slug))
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据 slug 获取文章数据库查询失败", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}
	return &post, nil
}

// SlugExists 实现 slug 占用检查。
func (r *postRepository) SlugExists(ctx context.Context, slug string, excludeID uint64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entities.Post{}).Where("slug = ?", slug)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		r.logger.Error("检查 slug 占用情况失败", zap.Error(err), zap.String("slug", slug))
		return false, err
	}
	return count > 0, nil
}

// cursorKeyset 游标行解析出的排序键值对。
type cursorKeyset struct {
	orderValue time.Time
	id         uint64
}

// resolveCursor 把对外不透明的游标（文章 ID）解析为排序键值对。
// 游标行可能已被删除；此时返回 ErrRepoNotFound，由上层告知客户端游标失效。
func (r *postRepository) resolveCursor(ctx context.Context, order PostOrder, cursorID uint64) (*cursorKeyset, error) {
	var post entities.Post
	err := r.db.WithContext(ctx).Select("id", "created_at", "published_at").First(&post, cursorID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Warn("游标指向的文章不存在或已删除", zap.Uint64("cursor", cursorID))
			return nil, commonerrors.ErrRepoNotFound
		}
		return nil, err
	}

	keyset := &cursorKeyset{id: post.ID}
	switch order {
	case OrderByPublishedAt:
		if post.PublishedAt == nil {
			// 游标行在翻页间隙被取消发布；按创建时间兜底继续翻页会产生错位，
			// 统一按游标失效处理。
			return nil, commonerrors.ErrRepoNotFound
		}
		keyset.orderValue = *post.PublishedAt
	default:
		keyset.orderValue = post.CreatedAt
	}
	return keyset, nil
}

// ListPostsByCursor 实现谓词筛选 + 游标分页查询。
// 核心约定: 取 limit+1 条判断是否还有下一页；超出的最后一条被截掉，
// 其 ID 即为 nextCursor。
func (r *postRepository) ListPostsByCursor(ctx context.Context, pred Predicate, order PostOrder, cursor *uint64, limit int) ([]*entities.Post, *uint64, error) {
	if limit <= 0 {
		limit = 10
		r.logger.Warn("ListPostsByCursor 接收到的 limit 无效，使用默认值",
			zap.Int("defaultLimit", limit),
		)
	}

	orderColumn := "created_at"
	if order == OrderByPublishedAt {
		orderColumn = "published_at"
	}

	query := pred.Apply(r.db.WithContext(ctx).Model(&entities.Post{}))

	// 游标条件: 严格位于游标行之后（降序即排序键更小，或同键且 id 更小）
	if cursor != nil {
		keyset, err := r.resolveCursor(ctx, order, *cursor)
		if err != nil {
			return nil, nil, err
		}
		query = query.Where(
			"("+orderColumn+" < ? OR ("+orderColumn+" = ? AND id < ?))",
			keyset.orderValue, keyset.orderValue, keyset.id,
		)
	}

	var posts []*entities.Post
	err := query.
		Order(orderColumn + " DESC").Order("id DESC").
		Limit(limit + 1).
		Preload("Tags").
		Find(&posts).Error
	if err != nil {
		r.logger.Error("游标分页查询文章列表失败",
			zap.Error(err),
			zap.String("orderColumn", orderColumn),
			zap.Int("limit", limit),
		)
		return nil, nil, err
	}

	var nextCursor *uint64
	if len(posts) > limit {
		// 多取的那一条说明还有下一页；截断后用当前页最后一条的 ID 作为游标。
		nextCursor = &posts[limit-1].ID
		posts = posts[:limit]
	}

	return posts, nextCursor, nil
}

// UpdatePostFields 实现按字段 map 的文章更新。
func (r *postRepository) UpdatePostFields(ctx context.Context, db *gorm.DB, postID uint64, updates map[string]interface{}) error {
	// 空 map 不短路: 只替换标签关联的更新也要推进 updated_at。
	if updates == nil {
		updates = map[string]interface{}{}
	}

	// 总是刷新 updated_at
	updates["updated_at"] = time.Now()

	result := db.WithContext(ctx).
		Model(&entities.Post{}).
		Where("id = ? AND deleted_at IS NULL", postID).
		Updates(updates)

	if result.Error != nil {
		if isDuplicateEntry(result.Error) {
			r.logger.Warn("更新文章命中 slug 唯一索引冲突", zap.Uint64("postID", postID))
			return myErrors.ErrSlugConflict
		}
		r.logger.Error("更新文章数据库操作失败",
			zap.Error(result.Error),
			zap.Uint64("postID", postID),
			zap.Any("updateData", updates),
		)
		return result.Error
	}

	if result.RowsAffected == 0 {
		r.logger.Warn("尝试更新文章但未找到记录或记录已被删除", zap.Uint64("postID", postID))
		return commonerrors.ErrRepoNotFound
	}

	return nil
}

// DeletePost 实现文章的软删除。
// db 参数是执行此操作的数据库句柄 (可以是普通连接，也可以是事务 tx)。
func (r *postRepository) DeletePost(ctx context.Context, db *gorm.DB, id uint64) error {
	result := db.WithContext(ctx).Delete(&entities.Post{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}
