package tasks

import (
	"context"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/constant"
	"github.com/Xushengqwer/blog_service/repo/redis"
)

// PopularPostsCacheTask 负责定时刷新 Redis 中的热门文章缓存。
// 榜单快照与文章内容 Hash 的重建都在 PopularPostsCache.RefreshPopularPosts 内完成。
type PopularPostsCacheTask struct {
	cache  redis.PopularPostsCache
	cron   *cron.Cron
	logger *core.ZapLogger
}

// NewPopularPostsCacheTask 初始化并启动热门文章缓存刷新定时任务。
func NewPopularPostsCacheTask(cache redis.PopularPostsCache, logger *core.ZapLogger) *PopularPostsCacheTask {
	task := &PopularPostsCacheTask{
		cache:  cache,
		cron:   cron.New(),
		logger: logger,
	}
	task.startCronJob()
	return task
}

// startCronJob 配置并启动 cron 作业。
func (t *PopularPostsCacheTask) startCronJob() {
	schedule := constant.PopularPostsCacheCronSpec
	t.logger.Info("准备启动热门文章缓存刷新定时任务", zap.String("schedule", schedule))

	entryID, err := t.cron.AddFunc(schedule, func() {
		t.logger.Info("热门文章缓存刷新任务开始执行...")
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if refreshErr := t.cache.RefreshPopularPosts(ctx, constant.PopularPostsLimit); refreshErr != nil {
			// 刷新失败时旧缓存保留，读路径不受影响
			t.logger.Error("热门文章缓存刷新失败", zap.Error(refreshErr))
		}

		t.logger.Info("热门文章缓存刷新任务执行完毕", zap.Duration("duration", time.Since(startTime)))
	})
	if err != nil {
		t.logger.Fatal("添加热门文章缓存刷新 cron 作业失败", zap.Error(err), zap.String("schedule", schedule))
	}

	t.cron.Start()
	t.logger.Info("热门文章缓存刷新定时任务已启动", zap.Uint("cronEntryID", uint(entryID)))
}

// Stop 优雅地停止 cron 调度器。
func (t *PopularPostsCacheTask) Stop() context.Context {
	t.logger.Info("正在停止热门文章缓存刷新定时任务...")
	return t.cron.Stop()
}
