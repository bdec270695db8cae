package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/constant"
	"github.com/Xushengqwer/blog_service/models/vo"
	"github.com/Xushengqwer/blog_service/repo/mysql"
)

// PopularPostsCache 定义了热门文章缓存的 Redis 操作接口。
// 榜单由浏览量总榜 (PostsRankKey) 定期截取生成，读路径只命中 Redis。
type PopularPostsCache interface {
	// RefreshPopularPosts 重建热门文章缓存。
	// 1. 用 Lua 原子性地从总榜截取前 n 名生成榜单快照 (PopularPostsKey)
	// 2. 从 MySQL 批量取回这些文章，序列化为响应 VO 写入 Hash
	// 3. 写临时 Hash 后 RENAME 激活，刷新失败时保留旧缓存
	RefreshPopularPosts(ctx context.Context, n int) error

	// GetPopularPosts 按榜单顺序返回缓存的热门文章。
	// - limit <= 0 时返回整个榜单
	// - 榜单不存在时返回空切片，不视为错误
	GetPopularPosts(ctx context.Context, limit int) ([]*vo.PostResponse, error)
}

type popularPostsCache struct {
	redisClient *redis.Client
	postBatch   mysql.PostBatchRepository
	logger      *core.ZapLogger
}

// NewPopularPostsCache 是 popularPostsCache 的构造函数。
func NewPopularPostsCache(redisClient *redis.Client, postBatch mysql.PostBatchRepository, logger *core.ZapLogger) PopularPostsCache {
	return &popularPostsCache{
		redisClient: redisClient,
		postBatch:   postBatch,
		logger:      logger,
	}
}

// snapshotScript 原子性地把总榜前 N 名复制成榜单快照。
// ZREVRANGE WITHSCORES 返回 {member1, score1, ...}，ZADD 需要 {score, member, ...}，
// 所以在脚本里重排参数。
var snapshotScript = redis.NewScript(`
	local items = redis.call("ZREVRANGE", KEYS[1], 0, tonumber(ARGV[1]) - 1, "WITHSCORES")
	redis.call("DEL", KEYS[2])
	if #items > 0 then
		local args = { KEYS[2] }
		for i = 1, #items, 2 do
			table.insert(args, items[i+1])
			table.insert(args, items[i])
		end
		redis.call("ZADD", unpack(args))
	end
	return #items / 2
`)

// RefreshPopularPosts 实现热门文章缓存的整体重建。
func (c *popularPostsCache) RefreshPopularPosts(ctx context.Context, n int) error {
	if n <= 0 {
		c.logger.Info("RefreshPopularPosts: 榜单大小无效，跳过刷新", zap.Int("n", n))
		return nil
	}

	startTime := time.Now()

	// 1. 快照总榜前 n 名。
	_, err := snapshotScript.Run(ctx, c.redisClient,
		[]string{constant.PostsRankKey, constant.PopularPostsKey}, n).Result()
	if err != nil {
		c.logger.Error("生成热门文章榜单快照失败", zap.Error(err), zap.Int("n", n))
		return fmt.Errorf("生成热门榜单快照 (Top %d) 失败: %w", n, err)
	}

	// 2. 读回快照的 ID 与分数。
	postScores, err := c.redisClient.ZRevRangeWithScores(ctx, constant.PopularPostsKey, 0, int64(n-1)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Error("读取热门榜单快照失败", zap.Error(err))
		return fmt.Errorf("读取热门榜单快照失败: %w", err)
	}

	if len(postScores) == 0 {
		// 还没有任何浏览记录；清掉旧 Hash 保持一致。
		c.logger.Info("热门榜单快照为空，清空热门文章 Hash 缓存")
		if delErr := c.redisClient.Del(ctx, constant.PopularPostsHashKey).Err(); delErr != nil {
			c.logger.Error("清空热门文章 Hash 缓存失败", zap.Error(delErr))
		}
		return nil
	}

	ids := make([]uint64, 0, len(postScores))
	scoreByID := make(map[uint64]float64, len(postScores))
	for _, z := range postScores {
		idStr, ok := z.Member.(string)
		if !ok {
			return fmt.Errorf("热门榜单快照成员类型异常 (member: %v)", z.Member)
		}
		id, parseErr := strconv.ParseUint(idStr, 10, 64)
		if parseErr != nil {
			return fmt.Errorf("解析热门榜单成员 ID '%s' 失败: %w", idStr, parseErr)
		}
		ids = append(ids, id)
		scoreByID[id] = z.Score
	}

	// 3. 回源 MySQL。失败时中止刷新，保留现有缓存。
	posts, dbErr := c.postBatch.GetPostsByIDs(ctx, ids)
	if dbErr != nil {
		c.logger.Error("批量获取热门文章失败，保留现有缓存", zap.Error(dbErr), zap.Int("idCount", len(ids)))
		return fmt.Errorf("从数据库获取热门文章失败: %w", dbErr)
	}

	// 4. 序列化响应 VO。浏览量用快照分数，比 MySQL 中的回写值更新。
	dataToCache := make(map[string]interface{}, len(posts))
	for _, post := range posts {
		// 软删除或已取消发布的文章不进缓存。
		if !post.Published {
			continue
		}
		voPost := vo.MapPostToResponseVO(post)
		voPost.Content = ""
		if score, ok := scoreByID[post.ID]; ok {
			voPost.ViewCount = int64(score)
		}
		jsonData, jsonErr := json.Marshal(voPost)
		if jsonErr != nil {
			c.logger.Error("序列化热门文章 VO 失败，跳过", zap.Error(jsonErr), zap.Uint64("postID", post.ID))
			continue
		}
		dataToCache[strconv.FormatUint(post.ID, 10)] = jsonData
	}

	if len(dataToCache) == 0 {
		c.logger.Warn("没有可缓存的热门文章，清空 Hash 缓存", zap.Int("榜单大小", len(ids)))
		if delErr := c.redisClient.Del(ctx, constant.PopularPostsHashKey).Err(); delErr != nil {
			c.logger.Error("清空热门文章 Hash 缓存失败", zap.Error(delErr))
		}
		return nil
	}

	// 5. 临时 Hash + RENAME，读请求要么看旧缓存要么看新缓存。
	tempHashKey := constant.PopularPostsHashKey + "_temp_" + strconv.FormatInt(time.Now().UnixNano(), 10)
	pipe := c.redisClient.Pipeline()
	pipe.Del(ctx, tempHashKey)
	pipe.HMSet(ctx, tempHashKey, dataToCache)
	if _, execErr := pipe.Exec(ctx); execErr != nil {
		c.redisClient.Del(ctx, tempHashKey)
		c.logger.Error("写入临时热门文章 Hash 失败，保留现有缓存", zap.Error(execErr))
		return fmt.Errorf("写入临时热门文章缓存失败: %w", execErr)
	}

	if renameErr := c.redisClient.Rename(ctx, tempHashKey, constant.PopularPostsHashKey).Err(); renameErr != nil {
		c.redisClient.Del(ctx, tempHashKey)
		c.logger.Error("激活热门文章 Hash 缓存失败", zap.Error(renameErr))
		return fmt.Errorf("激活热门文章缓存失败: %w", renameErr)
	}

	c.logger.Info("热门文章缓存刷新完成",
		zap.Int("缓存数量", len(dataToCache)),
		zap.Duration("耗时", time.Since(startTime)),
	)
	return nil
}

// GetPopularPosts 实现按榜单顺序读取热门文章缓存。
func (c *popularPostsCache) GetPopularPosts(ctx context.Context, limit int) ([]*vo.PostResponse, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	idStrs, err := c.redisClient.ZRevRange(ctx, constant.PopularPostsKey, 0, stop).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []*vo.PostResponse{}, nil
		}
		c.logger.Error("读取热门榜单失败", zap.Error(err))
		return nil, fmt.Errorf("读取热门榜单失败: %w", err)
	}
	if len(idStrs) == 0 {
		return []*vo.PostResponse{}, nil
	}

	values, err := c.redisClient.HMGet(ctx, constant.PopularPostsHashKey, idStrs...).Result()
	if err != nil {
		c.logger.Error("批量读取热门文章缓存失败", zap.Error(err), zap.Int("idCount", len(idStrs)))
		return nil, fmt.Errorf("批量读取热门文章缓存失败: %w", err)
	}

	posts := make([]*vo.PostResponse, 0, len(idStrs))
	for i, val := range values {
		if val == nil {
			// 榜单与 Hash 短暂错位（刷新间隙），跳过即可。
			c.logger.Debug("热门文章 Hash 未命中", zap.String("postID", idStrs[i]))
			continue
		}
		jsonStr, ok := val.(string)
		if !ok {
			c.logger.Error("热门文章缓存值类型异常，跳过",
				zap.String("postID", idStrs[i]), zap.String("type", fmt.Sprintf("%T", val)))
			continue
		}
		var post vo.PostResponse
		if jsonErr := json.Unmarshal([]byte(jsonStr), &post); jsonErr != nil {
			c.logger.Error("反序列化热门文章缓存失败，跳过", zap.Error(jsonErr), zap.String("postID", idStrs[i]))
			continue
		}
		posts = append(posts, &post)
	}

	return posts, nil
}
