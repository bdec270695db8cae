package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/config"
	"github.com/Xushengqwer/blog_service/constant"
)

// PostViewRepository 定义了文章浏览计数相关的 Redis 操作接口。
// 浏览量先在 Redis 聚合，由定时任务批量回写 MySQL，读路径不触碰数据库。
type PostViewRepository interface {
	// IncrementViewCount 原子性地增加文章浏览量并更新热度榜分数。
	// - 以 Bloom Filter 按访客标识去重，防刷窗口见 constant.BloomViewTTL
	// - 访客已在过滤器中时直接返回 nil，不计数
	IncrementViewCount(ctx context.Context, postID uint64, visitorID string) error

	// GetAllViewCounts 用 SCAN 分批捞出 Redis 中全部文章的浏览量。
	// - 作为回写 MySQL 的数据源；SCAN + MGET 避免 KEYS 阻塞
	GetAllViewCounts(ctx context.Context) (map[uint64]int64, error)
}

type postViewRepository struct {
	redisClient       *redis.Client
	logger            *core.ZapLogger
	viewSyncCfg       config.ViewSyncConfig
	bloomFilterSize   int64
	bloomFilterHashes uint
	bloomErrorRate    float64
}

// NewPostViewRepository 创建 PostViewRepository 实例。
func NewPostViewRepository(redisClient *redis.Client, logger *core.ZapLogger, bloomFilterSize int64, bloomFilterHashes uint, bloomErrorRate float64, viewSyncCfg config.ViewSyncConfig) PostViewRepository {
	return &postViewRepository{
		redisClient:       redisClient,
		logger:            logger,
		viewSyncCfg:       viewSyncCfg,
		bloomFilterSize:   bloomFilterSize,
		bloomFilterHashes: bloomFilterHashes,
		bloomErrorRate:    bloomErrorRate,
	}
}

// viewCountScript 在一次往返里同时递增计数器并刷新热度榜分数。
var viewCountScript = redis.NewScript(`
    local viewCount = redis.call("INCR", KEYS[1])
    redis.call("ZADD", KEYS[2], viewCount, ARGV[1])
    return viewCount
`)

// IncrementViewCount 实现带防刷的浏览量递增。
func (r *postViewRepository) IncrementViewCount(ctx context.Context, postID uint64, visitorID string) error {
	bloomKey := fmt.Sprintf("%s%d", constant.PostViewBloomPrefix, postID)
	viewCountKey := fmt.Sprintf("%s%d", constant.PostViewCountPrefix, postID)

	// 按需创建 Bloom Filter；已存在时 BF.RESERVE 返回 "ERR item exists"，视为正常。
	if err := r.redisClient.BFReserve(ctx, bloomKey, r.bloomErrorRate, r.bloomFilterSize).Err(); err != nil {
		if !strings.Contains(err.Error(), "ERR item exists") {
			r.logger.Error("创建 Bloom Filter 失败", zap.Error(err), zap.String("bloomKey", bloomKey))
			return fmt.Errorf("创建 Bloom Filter '%s' 失败: %w", bloomKey, err)
		}
	}

	// 防刷核心: 同一访客在 TTL 窗口内只计一次。
	seen, err := r.redisClient.BFExists(ctx, bloomKey, visitorID).Result()
	if err != nil {
		r.logger.Error("检查访客是否已计数时出错",
			zap.Error(err), zap.String("bloomKey", bloomKey), zap.String("visitorID", visitorID))
		return fmt.Errorf("检查 Bloom Filter 出错 ('%s'): %w", bloomKey, err)
	}
	if seen {
		r.logger.Debug("访客已在防刷窗口内，跳过计数",
			zap.Uint64("postID", postID), zap.String("visitorID", visitorID))
		return nil
	}

	if _, err = r.redisClient.BFAdd(ctx, bloomKey, visitorID).Result(); err != nil {
		r.logger.Error("写入访客到 Bloom Filter 失败", zap.Error(err), zap.String("bloomKey", bloomKey))
		return fmt.Errorf("写入 Bloom Filter '%s' 失败: %w", bloomKey, err)
	}

	// 刷新防刷窗口；失败不中断计数。
	if err := r.redisClient.Expire(ctx, bloomKey, constant.BloomViewTTL).Err(); err != nil {
		r.logger.Warn("设置 Bloom Filter 过期时间失败", zap.Error(err), zap.String("bloomKey", bloomKey))
	}

	_, err = viewCountScript.Run(ctx, r.redisClient, []string{viewCountKey, constant.PostsRankKey}, postID).Result()
	if err != nil {
		r.logger.Error("浏览量递增脚本执行失败", zap.Error(err), zap.Uint64("postID", postID))
		return fmt.Errorf("原子性增加浏览量失败 (PostID: %d): %w", postID, err)
	}

	return nil
}

// GetAllViewCounts 实现浏览量全量扫描。
func (r *postViewRepository) GetAllViewCounts(ctx context.Context) (map[uint64]int64, error) {
	viewCounts := make(map[uint64]int64)
	matchPattern := constant.PostViewCountPrefix + "*"

	scanCount := r.viewSyncCfg.ScanBatchSize
	if scanCount <= 0 {
		scanCount = 1000
		r.logger.Warn("GetAllViewCounts: 配置 ScanBatchSize 无效，使用默认值",
			zap.Int64("defaultScanBatchSize", scanCount),
			zap.Int64("configured", r.viewSyncCfg.ScanBatchSize),
		)
	}

	startTime := time.Now()
	var cursor uint64
	for {
		keys, nextCursor, err := r.redisClient.Scan(ctx, cursor, matchPattern, scanCount).Result()
		if err != nil {
			r.logger.Error("执行 Redis SCAN 失败",
				zap.Error(err), zap.Uint64("cursor", cursor), zap.String("pattern", matchPattern))
			return nil, fmt.Errorf("扫描浏览量 Keys 失败 (模式: %s): %w", matchPattern, err)
		}

		if len(keys) > 0 {
			values, mgetErr := r.redisClient.MGet(ctx, keys...).Result()
			if mgetErr != nil {
				r.logger.Error("MGET 批量获取浏览量失败", zap.Error(mgetErr), zap.Int("keys", len(keys)))
				return nil, fmt.Errorf("批量获取浏览量值失败 (%d keys): %w", len(keys), mgetErr)
			}

			for i, key := range keys {
				postIDStr := strings.TrimPrefix(key, constant.PostViewCountPrefix)
				postID, parseErr := strconv.ParseUint(postIDStr, 10, 64)
				if parseErr != nil {
					r.logger.Error("从 Redis Key 解析文章 ID 失败，跳过", zap.Error(parseErr), zap.String("key", key))
					continue
				}

				var count int64
				if i < len(values) && values[i] != nil {
					if valueStr, ok := values[i].(string); ok && valueStr != "" {
						if parsed, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
							count = parsed
						} else {
							r.logger.Error("解析浏览量值失败，按 0 处理", zap.Error(err), zap.String("key", key))
						}
					}
				}
				viewCounts[postID] = count
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	r.logger.Info("完成 Redis 浏览量扫描",
		zap.Int("文章数", len(viewCounts)),
		zap.Duration("耗时", time.Since(startTime)),
	)
	return viewCounts, nil
}
