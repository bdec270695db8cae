package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/blog_service/constant"
	"github.com/Xushengqwer/blog_service/dependencies"
	"github.com/Xushengqwer/blog_service/models/dto"
	"github.com/Xushengqwer/blog_service/models/entities"
	"github.com/Xushengqwer/blog_service/models/events"
	"github.com/Xushengqwer/blog_service/models/vo"
	"github.com/Xushengqwer/blog_service/mq/producer"
	"github.com/Xushengqwer/blog_service/myErrors"
	"github.com/Xushengqwer/blog_service/repo/mysql"
	"github.com/Xushengqwer/blog_service/repo/redis"
	"github.com/Xushengqwer/blog_service/utils"
)

// PostService 定义了文章写路径与按 slug 读取的业务逻辑接口。
type PostService interface {
	// FindBySlug 按 slug 获取单篇文章（含正文与标签）。
	// - 草稿同样可达，作者用同一接口预览未发布内容
	// - visitorID 非空时异步记一次浏览，不阻塞读取
	// - 未找到时返回 commonerrors.ErrRepoNotFound
	FindBySlug(ctx context.Context, slug string, visitorID string) (*vo.PostResponse, error)

	// CreatePost 创建文章。
	// - slug 未提供时由标题派生；占用冲突返回 myErrors.ErrSlugConflict
	// - 阅读时长由正文推导，不接受客户端传入
	// - 文章与标签关联在同一事务内写入
	// - 直接发布时写入发布时间，并在事务提交后异步发出发布事件
	CreatePost(ctx context.Context, authorID string, req *dto.CreatePostRequest) (*vo.PostResponse, error)

	// MutatePost 更新文章，所有字段可选。
	// - 仅作者本人可操作，否则返回 myErrors.ErrForbidden
	// - slug 变更来源: 显式提供 > 标题变更时重新派生；变更时做占用检查
	// - 标签提供时整体替换
	// - 草稿→发布 写入发布时间并发事件；发布→草稿 清空发布时间
	MutatePost(ctx context.Context, authorID string, postID uint64, req *dto.MutatePostRequest) (*vo.PostResponse, error)

	// DeletePost 软删除文章，仅作者本人可操作。
	// 返回删除前的文章快照，客户端据此做本地缓存的乐观回收。
	DeletePost(ctx context.Context, authorID string, postID uint64) (*vo.PostResponse, error)

	// UploadCoverImage 上传封面图到对象存储，返回公开 URL。
	// 上传与文章写入解耦: 前端先传图拿 URL，再随创建/更新请求提交。
	UploadCoverImage(ctx context.Context, authorID string, fileHeader *multipart.FileHeader) (*vo.CoverUploadVO, error)
}

// postService 是 PostService 接口的具体实现。
type postService struct {
	db           *gorm.DB                   // GORM 数据库实例，用于事务管理
	postRepo     mysql.PostRepository       // 文章的 MySQL 操作
	tagRepo      mysql.TagRepository        // 标签的 MySQL 操作
	postViewRepo redis.PostViewRepository   // 浏览量相关的 Redis 操作
	cosClient    dependencies.COSClientInterface
	kafkaSvc     *producer.KafkaProducer
	logger       *core.ZapLogger
}

// NewPostService 是 postService 的构造函数，通过依赖注入初始化服务实例。
func NewPostService(db *gorm.DB, postRepo mysql.PostRepository, tagRepo mysql.TagRepository, postViewRepo redis.PostViewRepository, cosClient dependencies.COSClientInterface, kafkaSvc *producer.KafkaProducer, logger *core.ZapLogger) PostService {
	return &postService{
		db:           db,
		postRepo:     postRepo,
		tagRepo:      tagRepo,
		postViewRepo: postViewRepo,
		cosClient:    cosClient,
		kafkaSvc:     kafkaSvc,
		logger:       logger,
	}
}

// FindBySlug 实现按 slug 读取文章。
func (s *postService) FindBySlug(ctx context.Context, slug string, visitorID string) (*vo.PostResponse, error) {
	post, err := s.postRepo.GetPostBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, commonerrors.ErrRepoNotFound) {
			s.logger.Error("按 slug 获取文章失败", zap.Error(err), zap.String("slug", slug))
		}
		return nil, err
	}

	// 浏览计数只对已发布文章生效，作者预览草稿不计数。
	if visitorID != "" && post.Published {
		go func(pID uint64, vID string) {
			// 与请求生命周期解耦，使用独立的 context。
			if redisErr := s.postViewRepo.IncrementViewCount(context.Background(), pID, vID); redisErr != nil {
				s.logger.Error("异步记录浏览量失败",
					zap.Error(redisErr),
					zap.Uint64("post_id", pID),
					zap.String("visitor_id", vID))
			}
		}(post.ID, visitorID)
	}

	return vo.MapPostToResponseVO(post), nil
}

// CreatePost 实现文章创建的业务流程。
func (s *postService) CreatePost(ctx context.Context, authorID string, req *dto.CreatePostRequest) (*vo.PostResponse, error) {
	// 1. 确定 slug 并做占用预检查。并发兜底是 slug 列的唯一索引。
	slug, err := resolveSlug(req.Slug, req.Title)
	if err != nil {
		return nil, err
	}
	taken, err := s.postRepo.SlugExists(ctx, slug, 0)
	if err != nil {
		return nil, fmt.Errorf("检查 slug 占用失败: %w", err)
	}
	if taken {
		return nil, myErrors.ErrSlugConflict
	}

	// 2. 组装实体。阅读时长从正文推导。
	post := &entities.Post{
		Title:       req.Title,
		Slug:        slug,
		Excerpt:     req.Excerpt,
		Content:     req.Content,
		CoverImage:  req.CoverImage,
		ReadTimeMin: utils.CalculateReadTime(req.Content),
		Published:   req.Published,
		AuthorID:    authorID,
		ViewCount:   0,
	}
	if req.Published {
		now := time.Now()
		post.PublishedAt = &now
	}

	tagNames := normalizeTagNames(req.Tags)

	// 3. 文章与标签关联在同一事务内落库。
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if repoErr := s.postRepo.CreatePost(ctx, tx, post); repoErr != nil {
			return fmt.Errorf("创建文章失败: %w", repoErr)
		}
		if len(tagNames) > 0 {
			tags, repoErr := s.tagRepo.ConnectOrCreateTags(ctx, tx, tagNames)
			if repoErr != nil {
				return fmt.Errorf("创建标签失败: %w", repoErr)
			}
			if repoErr := s.tagRepo.ReplacePostTags(ctx, tx, post, tags); repoErr != nil {
				return fmt.Errorf("关联标签失败: %w", repoErr)
			}
			post.Tags = tags
		}
		return nil
	})
	if err != nil {
		s.logger.Error("创建文章事务失败", zap.Error(err), zap.String("slug", slug))
		return nil, err
	}

	// 4. 事务提交后异步发出发布事件。
	if post.Published {
		s.emitPublishedEvent(post)
	}

	s.logger.Info("文章创建成功",
		zap.Uint64("post_id", post.ID),
		zap.String("slug", post.Slug),
		zap.Bool("published", post.Published),
	)
	return vo.MapPostToResponseVO(post), nil
}

// MutatePost 实现文章更新的业务流程。
func (s *postService) MutatePost(ctx context.Context, authorID string, postID uint64, req *dto.MutatePostRequest) (*vo.PostResponse, error) {
	// 1. 加载现状并做归属校验。
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != authorID {
		s.logger.Warn("非作者尝试修改文章",
			zap.Uint64("post_id", postID),
			zap.String("caller", authorID),
			zap.String("author", post.AuthorID),
		)
		return nil, myErrors.ErrForbidden
	}

	// 2. 推导目标 slug（显式 > 标题变更派生 > 不变），变更时做排除自身的占用检查。
	newSlug, slugChanged, err := resolveMutationSlug(post, req)
	if err != nil {
		return nil, err
	}
	if slugChanged {
		taken, checkErr := s.postRepo.SlugExists(ctx, newSlug, postID)
		if checkErr != nil {
			return nil, fmt.Errorf("检查 slug 占用失败: %w", checkErr)
		}
		if taken {
			return nil, myErrors.ErrSlugConflict
		}
	}

	updates, becamePublished := buildMutationUpdates(post, req, time.Now())
	if slugChanged {
		updates["slug"] = newSlug
	}

	// 3. 字段更新与标签替换在同一事务内完成。
	// 只换标签的请求也要走 UpdatePostFields: 它总是附带刷新 updated_at。
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if mutationPersistsRow(updates, req) {
			if repoErr := s.postRepo.UpdatePostFields(ctx, tx, postID, updates); repoErr != nil {
				return fmt.Errorf("更新文章字段失败: %w", repoErr)
			}
		}
		if req.Tags != nil {
			tagNames := normalizeTagNames(*req.Tags)
			tags, repoErr := s.tagRepo.ConnectOrCreateTags(ctx, tx, tagNames)
			if repoErr != nil {
				return fmt.Errorf("创建标签失败: %w", repoErr)
			}
			if repoErr := s.tagRepo.ReplacePostTags(ctx, tx, post, tags); repoErr != nil {
				return fmt.Errorf("替换标签关联失败: %w", repoErr)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("更新文章事务失败", zap.Error(err), zap.Uint64("post_id", postID))
		return nil, err
	}

	// 4. 读回最新状态返回；此时标签与字段都已落库。
	updated, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if becamePublished {
		s.emitPublishedEvent(updated)
	}

	s.logger.Info("文章更新成功",
		zap.Uint64("post_id", postID),
		zap.Int("changed_fields", len(updates)),
		zap.Bool("became_published", becamePublished),
	)
	return vo.MapPostToResponseVO(updated), nil
}

// DeletePost 实现文章的软删除，返回删除前的文章快照。
func (s *postService) DeletePost(ctx context.Context, authorID string, postID uint64) (*vo.PostResponse, error) {
	post, err := s.postRepo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != authorID {
		s.logger.Warn("非作者尝试删除文章",
			zap.Uint64("post_id", postID),
			zap.String("caller", authorID),
		)
		return nil, myErrors.ErrForbidden
	}

	// 在删除前生成快照，响应体用它支撑客户端的乐观缓存回收。
	snapshot := vo.MapPostToResponseVO(post)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 软删除只动 posts 行；关联表保留，标签计数查询按 deleted_at 过滤。
		if repoErr := s.postRepo.DeletePost(ctx, tx, postID); repoErr != nil {
			return fmt.Errorf("软删除文章失败: %w", repoErr)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("删除文章事务失败", zap.Error(err), zap.Uint64("post_id", postID))
		return nil, err
	}

	go func(id uint64, slug string) {
		bgCtx := context.Background()
		if kafkaErr := s.kafkaSvc.SendPostDeletedEvent(bgCtx, id, slug); kafkaErr != nil {
			s.logger.Error("发送文章删除事件失败", zap.Error(kafkaErr), zap.Uint64("post_id", id))
		}
	}(postID, post.Slug)

	s.logger.Info("文章删除成功", zap.Uint64("post_id", postID), zap.String("slug", post.Slug))
	return snapshot, nil
}

// UploadCoverImage 实现封面图上传。
func (s *postService) UploadCoverImage(ctx context.Context, authorID string, fileHeader *multipart.FileHeader) (*vo.CoverUploadVO, error) {
	file, err := fileHeader.Open()
	if err != nil {
		s.logger.Error("打开封面图文件失败", zap.String("filename", fileHeader.Filename), zap.Error(err))
		return nil, fmt.Errorf("打开封面图文件 %s 失败: %w", fileHeader.Filename, err)
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
		s.logger.Warn("封面图未提供内容类型，使用默认值", zap.String("filename", fileHeader.Filename))
	}

	objectKey := s.generateCoverObjectKey(fileHeader.Filename, authorID)
	imageURL, err := s.cosClient.UploadFile(ctx, objectKey, file, fileHeader.Size, contentType)
	if err != nil {
		return nil, fmt.Errorf("上传封面图 %s 失败: %w", fileHeader.Filename, err)
	}

	return &vo.CoverUploadVO{
		URL:       imageURL,
		ObjectKey: objectKey,
	}, nil
}

// generateCoverObjectKey 生成封面图的 COS 对象键。
// 规则: blog/covers/YYYYMMDD/authorID_uuid.ext
func (s *postService) generateCoverObjectKey(originalFilename string, authorID string) string {
	datePrefix := time.Now().Format("20060102")
	extension := strings.ToLower(filepath.Ext(originalFilename))
	return fmt.Sprintf("%s%s/%s_%s%s",
		constant.COSObjectKeyPrefixCoverImages,
		datePrefix,
		authorID,
		uuid.NewString(),
		extension,
	)
}

// emitPublishedEvent 在后台发送文章发布事件。
func (s *postService) emitPublishedEvent(post *entities.Post) {
	eventData := events.PostEventData{
		ID:          post.ID,
		Title:       post.Title,
		Slug:        post.Slug,
		Excerpt:     post.Excerpt,
		AuthorID:    post.AuthorID,
		PublishedAt: post.PublishedAt,
	}
	go func(data events.PostEventData) {
		bgCtx := context.Background()
		if kafkaErr := s.kafkaSvc.SendPostPublishedEvent(bgCtx, data); kafkaErr != nil {
			s.logger.Error("发送文章发布事件失败", zap.Error(kafkaErr), zap.Uint64("post_id", data.ID))
		} else {
			s.logger.Info("成功发送文章发布事件", zap.Uint64("post_id", data.ID))
		}
	}(eventData)
}
