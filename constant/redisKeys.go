package constant

// Redis Key 相关常量 (导出)
const (
	// --- Key 前缀 (用于动态生成 Key) ---

	// PostViewBloomPrefix 是文章浏览记录 Bloom Filter 的 Key 前缀。
	// 每篇文章会有一个对应的 Bloom Filter Key。
	// 用于快速判断某个访客是否在防刷窗口内浏览过某文章。
	// 示例 Key: "blog_view_bloom:123" (其中 123 是 postID)
	PostViewBloomPrefix = "blog_view_bloom:"

	// PostViewCountPrefix 是文章浏览量计数器的 Key 前缀。
	// 每篇文章会有一个对应的 String 类型的 Key，用于原子性计数。
	// 示例 Key: "blog_view_count:123"，示例值: "58"
	// 定时任务通过 SCAN 该前缀批量回写 MySQL。
	PostViewCountPrefix = "blog_view_count:"

	// --- 固定 Key 名称 (全局使用的 Key) ---

	// PostsRankKey 是全量文章浏览排行的 Key 名称。
	// Sorted Set，成员是文章 ID，分数是浏览量，随每次浏览实时更新。
	PostsRankKey = "blog_post_rank"

	// PopularPostsKey 是热门文章榜单缓存的 Key 名称。
	// Sorted Set，由定时任务从 PostsRankKey 截取 Top N 生成，
	// GET /posts/popular 直接读这里。
	PopularPostsKey = "blog_popular_posts"

	// PopularPostsHashKey 是热门文章摘要缓存的 Hash Key 名称。
	// Field 是文章 ID，Value 是序列化后的 vo.PostResponse（不含正文）。
	PopularPostsHashKey = "blog_popular_posts_hash"
)
