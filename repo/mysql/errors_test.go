package mysql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
)

// 唯一索引冲突识别是 SlugExists 预检查之外的并发兜底，
// 需要正确穿透 GORM 对驱动错误的包装。
func TestIsDuplicateEntry(t *testing.T) {
	t.Run("命中 1062", func(t *testing.T) {
		err := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'hello-go' for key 'posts.idx_posts_slug'"}
		if !isDuplicateEntry(err) {
			t.Error("1062 应被识别为唯一索引冲突")
		}
	})

	t.Run("穿透包装层", func(t *testing.T) {
		raw := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
		wrapped := fmt.Errorf("创建文章失败: %w", raw)
		if !isDuplicateEntry(wrapped) {
			t.Error("包装后的 1062 应同样被识别")
		}
	})

	t.Run("其他数据库错误不误判", func(t *testing.T) {
		err := &mysql.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}
		if isDuplicateEntry(err) {
			t.Error("非 1062 的 MySQL 错误不应被识别为唯一索引冲突")
		}
	})

	t.Run("非驱动错误不误判", func(t *testing.T) {
		if isDuplicateEntry(errors.New("connection refused")) {
			t.Error("普通错误不应被识别为唯一索引冲突")
		}
	})
}
