package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/models/dto"
	"github.com/Xushengqwer/blog_service/models/vo"
	"github.com/Xushengqwer/blog_service/myErrors"
	"github.com/Xushengqwer/blog_service/repo/mysql"
)

// PostListService 定义了文章列表与标签读路径的业务逻辑接口。
type PostListService interface {
	// ListPublished 游标分页列出已发布文章，按发布时间降序。
	// - 可选全文搜索；列表项不携带正文
	ListPublished(ctx context.Context, req *dto.ListPostsRequestDTO) (*vo.PostPageVO, error)

	// ListAll 游标分页列出全部文章（含草稿），按创建时间降序。
	// - 作者后台专用，路由层保证已鉴权
	ListAll(ctx context.Context, req *dto.ListPostsRequestDTO) (*vo.PostPageVO, error)

	// ListWithFilters 按状态/标签/时间窗口/搜索词的任意组合筛选文章。
	// - 各条件之间取 AND；status=published 时按发布时间排序，否则按创建时间
	ListWithFilters(ctx context.Context, req *dto.ListWithFiltersRequestDTO) (*vo.PostPageVO, error)

	// GetTags 列出全部标签及其关联文章数（含草稿），按文章数降序。
	GetTags(ctx context.Context) ([]*vo.TagVO, error)
}

// postListService 是 PostListService 接口的具体实现。
type postListService struct {
	postRepo mysql.PostRepository
	tagRepo  mysql.TagRepository
	logger   *core.ZapLogger
}

// NewPostListService 是 postListService 的构造函数。
func NewPostListService(postRepo mysql.PostRepository, tagRepo mysql.TagRepository, logger *core.ZapLogger) PostListService {
	return &postListService{
		postRepo: postRepo,
		tagRepo:  tagRepo,
		logger:   logger,
	}
}

// sanitizeSearch 统一走查询参数校验，把 DTO 的可选项转成可直接使用的值。
func sanitizeSearch(query *string, limit int) (string, int, error) {
	result := mysql.ValidateSearchParams(query, &limit)
	if !result.Valid {
		return "", 0, fmt.Errorf("%w: %s", myErrors.ErrInvalidSearchParams, strings.Join(result.Errors, "; "))
	}
	return result.SanitizedQuery, result.SanitizedLimit, nil
}

// ListPublished 实现公开列表查询。
func (s *postListService) ListPublished(ctx context.Context, req *dto.ListPostsRequestDTO) (*vo.PostPageVO, error) {
	query, limit, err := sanitizeSearch(req.Query, req.EffectiveLimit())
	if err != nil {
		return nil, err
	}

	pred := mysql.BuildTextSearchPredicate(query, true)
	posts, nextCursor, err := s.postRepo.ListPostsByCursor(ctx, pred, mysql.OrderByPublishedAt, req.Cursor, limit)
	if err != nil {
		s.logger.Error("查询已发布文章列表失败", zap.Error(err), zap.String("query", query))
		return nil, err
	}

	return &vo.PostPageVO{
		Posts:      vo.MapPostsToResponseVOs(posts),
		NextCursor: nextCursor,
	}, nil
}

// ListAll 实现作者后台的全量列表查询。
func (s *postListService) ListAll(ctx context.Context, req *dto.ListPostsRequestDTO) (*vo.PostPageVO, error) {
	query, limit, err := sanitizeSearch(req.Query, req.EffectiveLimit())
	if err != nil {
		return nil, err
	}

	// 不加发布状态约束，草稿一并返回。
	pred := mysql.BuildTextSearchPredicate(query, false)
	posts, nextCursor, err := s.postRepo.ListPostsByCursor(ctx, pred, mysql.OrderByCreatedAt, req.Cursor, limit)
	if err != nil {
		s.logger.Error("查询全部文章列表失败", zap.Error(err), zap.String("query", query))
		return nil, err
	}

	return &vo.PostPageVO{
		Posts:      vo.MapPostsToResponseVOs(posts),
		NextCursor: nextCursor,
	}, nil
}

// ListWithFilters 实现组合条件筛选查询。
func (s *postListService) ListWithFilters(ctx context.Context, req *dto.ListWithFiltersRequestDTO) (*vo.PostPageVO, error) {
	query, limit, err := sanitizeSearch(req.Query, req.EffectiveLimit())
	if err != nil {
		return nil, err
	}

	status := mysql.PostStatus(req.EffectiveStatus())

	var dateRange *mysql.DateRange
	if req.From != nil || req.To != nil {
		dateRange = &mysql.DateRange{From: req.From, To: req.To}
	}

	// 状态/标签/时间窗口与全文搜索合并为一个谓词。
	// 文本谓词不再重复追加发布约束，状态约束由筛选谓词自己处理。
	pred := mysql.BuildTagAndStatusPredicate(status, normalizeTagNames(req.Tags), dateRange).
		And(mysql.BuildTextSearchPredicate(query, false))

	order := mysql.OrderByCreatedAt
	if status == mysql.StatusPublished {
		order = mysql.OrderByPublishedAt
	}

	posts, nextCursor, err := s.postRepo.ListPostsByCursor(ctx, pred, order, req.Cursor, limit)
	if err != nil {
		s.logger.Error("条件筛选文章列表失败",
			zap.Error(err),
			zap.String("status", string(status)),
			zap.Strings("tags", req.Tags),
		)
		return nil, err
	}

	return &vo.PostPageVO{
		Posts:      vo.MapPostsToResponseVOs(posts),
		NextCursor: nextCursor,
	}, nil
}

// GetTags 实现标签列表查询。
func (s *postListService) GetTags(ctx context.Context) ([]*vo.TagVO, error) {
	tags, err := s.tagRepo.ListTagsWithCount(ctx)
	if err != nil {
		return nil, err
	}
	return vo.MapTagsToVOs(tags), nil
}
