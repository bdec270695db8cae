package mysql

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/blog_service/config"
	"github.com/Xushengqwer/blog_service/models/entities"
)

// PostBatchRepository 定义了面向后台任务的批量数据库操作接口，
// 主要服务于浏览量回写与热门文章缓存填充。
type PostBatchRepository interface {
	// BatchUpdateViewCounts 并发地将 Redis 汇总的浏览量批量写回 MySQL。
	// - 允许部分批次失败，聚合错误返回，依靠下次同步达成最终一致
	BatchUpdateViewCounts(ctx context.Context, viewCounts map[uint64]int64) error

	// GetPostsByIDs 根据 ID 列表批量检索文章，附带标签。
	// - 软删除的文章不会返回；调用方按返回集合为准
	GetPostsByIDs(ctx context.Context, ids []uint64) ([]*entities.Post, error)
}

type postBatchRepository struct {
	db          *gorm.DB
	logger      *core.ZapLogger
	viewSyncCfg config.ViewSyncConfig
}

// NewPostBatchRepository 是 postBatchRepository 的构造函数。
func NewPostBatchRepository(db *gorm.DB, logger *core.ZapLogger, viewSyncCfg config.ViewSyncConfig) PostBatchRepository {
	return &postBatchRepository{db: db, logger: logger, viewSyncCfg: viewSyncCfg}
}

// viewUpdateItem 在并发处理通道中传递文章 ID 与对应浏览量。
type viewUpdateItem struct {
	ID        uint64
	ViewCount int64
}

// BatchUpdateViewCounts 实现浏览量批量回写。
//
// 核心机制:
//  1. 按 viewSyncCfg.BatchSize 把全部更新切成小批次
//  2. 按 viewSyncCfg.ConcurrencyLevel 启动 worker 池消费批次
//  3. 每个批次用单条 CASE WHEN 更新落库，控制数据库往返次数
//
// 单个批次失败只记录并聚合，不中断其余批次。
func (r *postBatchRepository) BatchUpdateViewCounts(ctx context.Context, viewCounts map[uint64]int64) error {
	total := len(viewCounts)
	if total == 0 {
		r.logger.Info("BatchUpdateViewCounts: 没有需要回写的浏览量，任务提前结束")
		return nil
	}

	batchSize := r.viewSyncCfg.BatchSize
	if batchSize <= 0 {
		batchSize = 500
		r.logger.Warn("BatchUpdateViewCounts: 配置 BatchSize 无效，使用默认值",
			zap.Int("defaultBatchSize", batchSize), zap.Int("configured", r.viewSyncCfg.BatchSize))
	}

	concurrency := r.viewSyncCfg.ConcurrencyLevel
	if concurrency <= 0 {
		concurrency = 1
		r.logger.Warn("BatchUpdateViewCounts: 配置 ConcurrencyLevel 无效，顺序执行",
			zap.Int("configured", r.viewSyncCfg.ConcurrencyLevel))
	}

	items := make([]viewUpdateItem, 0, total)
	for id, count := range viewCounts {
		items = append(items, viewUpdateItem{ID: id, ViewCount: count})
	}

	totalBatches := (total + batchSize - 1) / batchSize
	r.logger.Info("BatchUpdateViewCounts: 开始并发批量回写",
		zap.Int("总数", total),
		zap.Int("批大小", batchSize),
		zap.Int("并发数", concurrency),
		zap.Int("批次数", totalBatches),
	)

	var wg sync.WaitGroup
	jobs := make(chan []viewUpdateItem, concurrency)
	results := make(chan error, totalBatches)
	startTime := time.Now()

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for batch := range jobs {
				select {
				case <-ctx.Done():
					results <- fmt.Errorf("worker %d: context cancelled: %w", workerID, ctx.Err())
					continue
				default:
				}
				results <- r.writeBatch(ctx, batch, workerID)
			}
		}(i)
	}

	go func() {
		defer close(jobs)
		for i := 0; i < total; i += batchSize {
			end := i + batchSize
			if end > total {
				end = total
			}
			batch := make([]viewUpdateItem, end-i)
			copy(batch, items[i:end])

			select {
			case <-ctx.Done():
				r.logger.Warn("上下文取消，停止分发后续批次", zap.Error(ctx.Err()))
				return
			case jobs <- batch:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var failed []string
	for err := range results {
		if err != nil {
			failed = append(failed, err.Error())
		}
	}

	r.logger.Info("BatchUpdateViewCounts: 全部批次处理完成",
		zap.Duration("总耗时", time.Since(startTime)),
		zap.Int("总批次数", totalBatches),
		zap.Int("失败批次数", len(failed)),
	)

	if len(failed) > 0 {
		return fmt.Errorf("浏览量批量回写部分失败 (%d / %d 个批次): %s",
			len(failed), totalBatches, strings.Join(failed, "; "))
	}
	return nil
}

// writeBatch 把单个批次拼成一条 CASE WHEN 更新语句落库。
func (r *postBatchRepository) writeBatch(ctx context.Context, batch []viewUpdateItem, workerID int) error {
	var (
		ids     []uint64
		sqlCase strings.Builder
		params  []interface{}
	)
	sqlCase.WriteString("CASE id ")
	for _, item := range batch {
		ids = append(ids, item.ID)
		sqlCase.WriteString("WHEN ? THEN ? ")
		params = append(params, item.ID, item.ViewCount)
	}
	sqlCase.WriteString("END")

	start := time.Now()
	err := r.db.WithContext(ctx).Model(&entities.Post{}).
		Where("id IN ?", ids).
		Update("view_count", gorm.Expr(sqlCase.String(), params...)).Error
	if err != nil {
		r.logger.Error("writeBatch: 批次回写失败",
			zap.Int("workerID", workerID),
			zap.Int("batchSize", len(batch)),
			zap.Duration("db耗时", time.Since(start)),
			zap.Error(err),
		)
		return fmt.Errorf("worker %d 回写批次 (大小 %d) 失败: %w", workerID, len(batch), err)
	}
	return nil
}

// GetPostsByIDs 实现根据 ID 列表批量获取文章。
func (r *postBatchRepository) GetPostsByIDs(ctx context.Context, ids []uint64) ([]*entities.Post, error) {
	var posts []*entities.Post
	if len(ids) == 0 {
		return posts, nil
	}

	// Find 自动套用软删除条件，只返回仍然存在的文章。
	err := r.db.WithContext(ctx).Preload("Tags").Where("id IN ?", ids).Find(&posts).Error
	if err != nil {
		r.logger.Error("GetPostsByIDs: 批量查询文章失败", zap.Error(err), zap.Int("id数量", len(ids)))
		return nil, err
	}
	return posts, nil
}
