package tasks

import (
	"context"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/constant"
	"github.com/Xushengqwer/blog_service/repo/mysql"
	"github.com/Xushengqwer/blog_service/repo/redis"
)

// ViewCountSyncTask 负责定时将 Redis 中聚合的文章浏览量回写到 MySQL。
// Redis 是浏览量的实时数据面，MySQL 里的 view_count 列是周期性快照。
type ViewCountSyncTask struct {
	postViewRepo  redis.PostViewRepository
	postBatchRepo mysql.PostBatchRepository
	cron          *cron.Cron
	logger        *core.ZapLogger
}

// NewViewCountSyncTask 初始化并启动浏览量回写定时任务。
func NewViewCountSyncTask(
	postViewRepo redis.PostViewRepository,
	postBatchRepo mysql.PostBatchRepository,
	logger *core.ZapLogger,
) *ViewCountSyncTask {
	task := &ViewCountSyncTask{
		postViewRepo:  postViewRepo,
		postBatchRepo: postBatchRepo,
		cron:          cron.New(),
		logger:        logger,
	}
	task.startCronJob()
	return task
}

// startCronJob 配置并启动 cron 作业。
func (t *ViewCountSyncTask) startCronJob() {
	schedule := constant.SyncViewCountInterval
	t.logger.Info("准备启动文章浏览量回写定时任务", zap.String("schedule", schedule))

	entryID, err := t.cron.AddFunc(schedule, func() {
		t.logger.Info("文章浏览量回写任务开始执行...")
		startTime := time.Now()
		// 单次执行超时要覆盖 Redis 全量扫描 + MySQL 批量更新
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()

		t.syncViewCountsToDB(ctx)

		t.logger.Info("文章浏览量回写任务执行完毕", zap.Duration("duration", time.Since(startTime)))
	})
	if err != nil {
		t.logger.Fatal("添加浏览量回写 cron 作业失败", zap.Error(err), zap.String("schedule", schedule))
	}

	t.cron.Start()
	t.logger.Info("文章浏览量回写定时任务已启动", zap.Uint("cronEntryID", uint(entryID)))
}

// syncViewCountsToDB 单次回写: Redis 全量扫描 → MySQL 批量更新。
func (t *ViewCountSyncTask) syncViewCountsToDB(ctx context.Context) {
	viewCounts, err := t.postViewRepo.GetAllViewCounts(ctx)
	if err != nil {
		t.logger.Error("从 Redis 获取全量浏览量失败，本次回写中止", zap.Error(err))
		return
	}
	if len(viewCounts) == 0 {
		t.logger.Info("Redis 中没有浏览量数据，无需回写")
		return
	}

	if err := t.postBatchRepo.BatchUpdateViewCounts(ctx, viewCounts); err != nil {
		// 部分批次失败不回滚；下一轮同步会覆盖写入
		t.logger.Error("浏览量批量回写存在失败批次", zap.Error(err), zap.Int("提交数量", len(viewCounts)))
	} else {
		t.logger.Info("浏览量批量回写完成", zap.Int("提交数量", len(viewCounts)))
	}
}

// Stop 优雅地停止 cron 调度器。
// 返回的 context 在正在执行的任务全部结束后关闭。
func (t *ViewCountSyncTask) Stop() context.Context {
	t.logger.Info("正在停止文章浏览量回写定时任务...")
	return t.cron.Stop()
}
