package service

import (
	"context"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/constant"
	"github.com/Xushengqwer/blog_service/models/vo"
	"github.com/Xushengqwer/blog_service/repo/redis"
)

// PopularPostService 定义了热门文章读路径的业务逻辑接口。
type PopularPostService interface {
	// GetPopularPosts 返回按浏览热度排序的文章列表，全部命中 Redis 缓存。
	// - limit <= 0 或超过榜单上限时取榜单全量
	GetPopularPosts(ctx context.Context, limit int) ([]*vo.PostResponse, error)
}

type popularPostService struct {
	cache  redis.PopularPostsCache
	logger *core.ZapLogger
}

// NewPopularPostService 是 popularPostService 的构造函数。
func NewPopularPostService(cache redis.PopularPostsCache, logger *core.ZapLogger) PopularPostService {
	return &popularPostService{
		cache:  cache,
		logger: logger,
	}
}

// GetPopularPosts 实现热门文章查询。
// 缓存由后台定时任务维护；这里不回源 MySQL，缓存为空就返回空列表。
func (s *popularPostService) GetPopularPosts(ctx context.Context, limit int) ([]*vo.PostResponse, error) {
	if limit <= 0 || limit > constant.PopularPostsLimit {
		limit = constant.PopularPostsLimit
	}

	posts, err := s.cache.GetPopularPosts(ctx, limit)
	if err != nil {
		s.logger.Error("读取热门文章缓存失败", zap.Error(err), zap.Int("limit", limit))
		return nil, err
	}
	return posts, nil
}
