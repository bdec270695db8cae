package service

import (
	"context"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/models/entities"
	"github.com/Xushengqwer/blog_service/models/vo"
	"github.com/Xushengqwer/blog_service/repo/mysql"
)

// NewsletterService 定义了订阅相关的业务逻辑接口。
type NewsletterService interface {
	// Subscribe 记录一个新的订阅邮箱。
	// - 重复订阅返回 myErrors.ErrEmailConflict
	Subscribe(ctx context.Context, email string) (*vo.NewsletterVO, error)

	// ListSubscribers 列出全部订阅者，按订阅时间降序。作者后台使用。
	ListSubscribers(ctx context.Context) ([]*vo.NewsletterVO, error)
}

type newsletterService struct {
	newsletterRepo mysql.NewsletterRepository
	logger         *core.ZapLogger
}

// NewNewsletterService 是 newsletterService 的构造函数。
func NewNewsletterService(newsletterRepo mysql.NewsletterRepository, logger *core.ZapLogger) NewsletterService {
	return &newsletterService{
		newsletterRepo: newsletterRepo,
		logger:         logger,
	}
}

// Subscribe 实现订阅登记。
func (s *newsletterService) Subscribe(ctx context.Context, email string) (*vo.NewsletterVO, error) {
	sub, err := s.newsletterRepo.CreateSubscription(ctx, email)
	if err != nil {
		return nil, err
	}

	s.logger.Info("新增订阅", zap.String("email", email))
	return mapNewsletterToVO(sub), nil
}

// ListSubscribers 实现订阅者列表查询。
func (s *newsletterService) ListSubscribers(ctx context.Context) ([]*vo.NewsletterVO, error) {
	subs, err := s.newsletterRepo.ListSubscriptions(ctx)
	if err != nil {
		return nil, err
	}

	vos := make([]*vo.NewsletterVO, 0, len(subs))
	for i := range subs {
		vos = append(vos, mapNewsletterToVO(&subs[i]))
	}
	return vos, nil
}

func mapNewsletterToVO(sub *entities.Newsletter) *vo.NewsletterVO {
	if sub == nil {
		return nil
	}
	return &vo.NewsletterVO{
		ID:        sub.ID,
		Email:     sub.Email,
		CreatedAt: sub.CreatedAt,
	}
}
