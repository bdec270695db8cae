package constant

// 服务元信息，注册到日志和链路追踪
const (
	ServiceName    = "blog_service"
	ServiceVersion = "1.0.0"
)

// 定时任务调度表达式 (robfig/cron v3，分钟级)
const (
	// SyncViewCountInterval 浏览量从 Redis 回写 MySQL 的调度周期
	SyncViewCountInterval = "*/5 * * * *"
	// PopularPostsCacheCronSpec 热门文章缓存快照的刷新周期
	PopularPostsCacheCronSpec = "*/10 * * * *"
)

// COSObjectKeyPrefixCoverImages 封面图在 COS 中的对象键前缀
const COSObjectKeyPrefixCoverImages = "blog/covers/"

// PopularPostsLimit 热门文章榜单缓存的条目数上限
const PopularPostsLimit = 20
