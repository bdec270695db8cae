package mysql

import (
	"strings"
	"testing"
)

// 标签计数覆盖含草稿在内的全部未删除文章，关联条件里不允许出现发布状态过滤。
func TestTagPostCountJoin(t *testing.T) {
	t.Run("过滤软删除文章", func(t *testing.T) {
		if !strings.Contains(tagPostCountJoin, "posts.deleted_at IS NULL") {
			t.Fatalf("关联条件缺少软删除过滤: %s", tagPostCountJoin)
		}
	})

	t.Run("草稿计入计数", func(t *testing.T) {
		if strings.Contains(tagPostCountJoin, "published") {
			t.Fatalf("关联条件不应按发布状态过滤: %s", tagPostCountJoin)
		}
	})

	t.Run("通过关联表连接", func(t *testing.T) {
		if !strings.Contains(tagPostCountJoin, "post_tags.post_id") {
			t.Fatalf("关联条件缺少 post_tags 连接: %s", tagPostCountJoin)
		}
	})
}
