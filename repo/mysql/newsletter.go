package mysql

import (
	"context"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/blog_service/models/entities"
	"github.com/Xushengqwer/blog_service/myErrors"
)

// mysqlDuplicateEntry MySQL 唯一索引冲突的错误码。
const mysqlDuplicateEntry = 1062

// NewsletterRepository 定义了订阅数据在 MySQL 中的持久化操作接口。
type NewsletterRepository interface {
	// CreateSubscription 写入一条新的订阅记录。
	// - 邮箱已存在时返回 myErrors.ErrEmailConflict
	CreateSubscription(ctx context.Context, email string) (*entities.Newsletter, error)

	// ListSubscriptions 列出全部订阅，按订阅时间降序。
	ListSubscriptions(ctx context.Context) ([]entities.Newsletter, error)

	// ListEmails 仅取全部订阅邮箱，供新文章通知分发使用。
	ListEmails(ctx context.Context) ([]string, error)
}

type newsletterRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewNewsletterRepository 是 newsletterRepository 的构造函数。
func NewNewsletterRepository(db *gorm.DB, logger *core.ZapLogger) NewsletterRepository {
	return &newsletterRepository{
		db:     db,
		logger: logger,
	}
}

// CreateSubscription 实现订阅记录的插入。
// 不做先查后插的预检查，依赖 email 列唯一索引: 并发重复订阅只会有一条落库。
func (r *newsletterRepository) CreateSubscription(ctx context.Context, email string) (*entities.Newsletter, error) {
	sub := &entities.Newsletter{Email: email}
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		if isDuplicateEntry(err) {
			r.logger.Warn("重复的订阅邮箱", zap.String("email", email))
			return nil, myErrors.ErrEmailConflict
		}
		r.logger.Error("写入订阅记录失败", zap.Error(err), zap.String("email", email))
		return nil, err
	}
	return sub, nil
}

// ListSubscriptions 实现订阅列表查询。
func (r *newsletterRepository) ListSubscriptions(ctx context.Context) ([]entities.Newsletter, error) {
	var subs []entities.Newsletter
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&subs).Error
	if err != nil {
		r.logger.Error("查询订阅列表失败", zap.Error(err))
		return nil, err
	}
	return subs, nil
}

// ListEmails 实现订阅邮箱列表查询。
func (r *newsletterRepository) ListEmails(ctx context.Context) ([]string, error) {
	var emails []string
	err := r.db.WithContext(ctx).
		Model(&entities.Newsletter{}).
		Pluck("email", &emails).Error
	if err != nil {
		r.logger.Error("查询订阅邮箱失败", zap.Error(err))
		return nil, err
	}
	return emails, nil
}
