package config

// ViewSyncConfig 包含浏览量同步任务相关的配置
type ViewSyncConfig struct {
	// BatchSize 是将 Redis 中的浏览量同步到 MySQL 数据库时，每个数据库操作批次处理的文章数量。
	// 例如从 Redis 获取到 100,000 条文章的浏览量需要同步，且 BatchSize 设置为 500，
	// 则 BatchUpdatePostViewCounts 方法会将这些数据分割成 200 个小批次，
	// 每个小批次通过一次 UPDATE（CASE WHEN 语句）完成。
	// 这个参数主要影响单次数据库 UPDATE 语句的复杂度和处理的数据行数。
	BatchSize int `mapstructure:"batchSize" json:"batchSize" yaml:"batchSize"`

	// ConcurrencyLevel 是执行浏览量同步到 MySQL 任务时，并发处理数据批次的 worker (goroutine) 数量。
	// 接上例，200 个批次在 ConcurrencyLevel = 4 时由 4 个 worker 并行消费，
	// 每个 worker 独立执行其批次的数据库更新操作。
	// 这个参数主要影响同时向数据库发起更新请求的并发连接数。
	ConcurrencyLevel int `mapstructure:"concurrencyLevel" json:"concurrencyLevel" yaml:"concurrencyLevel"`

	// ScanBatchSize 是从 Redis 使用 SCAN 命令获取所有文章浏览量 Key 时，
	// 传递给 SCAN 命令的 COUNT 参数的建议值。
	// Redis 不保证精确返回此数量，但会以此为提示。
	// 较大的值可能会减少 SCAN 的迭代次数，但单次操作可能稍慢；较小的值则相反。
	ScanBatchSize int64 `mapstructure:"scanBatchSize" json:"scanBatchSize" yaml:"scanBatchSize"`
}
