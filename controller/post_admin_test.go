package controller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Xushengqwer/go-common/constants"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/blog_service/models/vo"
	"github.com/Xushengqwer/blog_service/myErrors"
	"github.com/Xushengqwer/blog_service/service"
)

// fakePostService 只覆盖被测方法，其余继承嵌入接口（调用即 panic，测试不应触达）。
type fakePostService struct {
	service.PostService
	deletedVO *vo.PostResponse
	deleteErr error
	gotAuthor string
	gotPostID uint64
}

func (f *fakePostService) DeletePost(_ context.Context, authorID string, postID uint64) (*vo.PostResponse, error) {
	f.gotAuthor = authorID
	f.gotPostID = postID
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	return f.deletedVO, nil
}

func newDeleteRouter(fake *fakePostService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctrl := NewPostAdminController(fake, nil)
	router := gin.New()
	router.DELETE("/admin/posts/:id", func(c *gin.Context) {
		if userID != "" {
			c.Set(string(constants.UserIDKey), userID)
		}
		ctrl.DeletePost(c)
	})
	return router
}

// 删除接口的响应体要携带删除前的文章数据，客户端据此回收本地缓存。
func TestDeletePostReturnsPriorData(t *testing.T) {
	t.Run("响应携带删除前快照", func(t *testing.T) {
		fake := &fakePostService{
			deletedVO: &vo.PostResponse{
				ID:    42,
				Title: "再见的那一篇",
				Slug:  "goodbye-post",
				Tags:  []string{"go"},
			},
		}
		router := newDeleteRouter(fake, "author-1")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/admin/posts/42", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body = %s", w.Code, w.Body.String())
		}
		body := w.Body.String()
		if !strings.Contains(body, `"goodbye-post"`) {
			t.Errorf("响应体缺少删除前的 slug: %s", body)
		}
		if !strings.Contains(body, "再见的那一篇") {
			t.Errorf("响应体缺少删除前的标题: %s", body)
		}
		if fake.gotAuthor != "author-1" || fake.gotPostID != 42 {
			t.Errorf("服务层收到 author=%q postID=%d", fake.gotAuthor, fake.gotPostID)
		}
	})

	t.Run("非作者删除返回 403", func(t *testing.T) {
		fake := &fakePostService{deleteErr: myErrors.ErrForbidden}
		router := newDeleteRouter(fake, "intruder")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/admin/posts/42", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
	})

	t.Run("非法文章 ID 返回 400", func(t *testing.T) {
		fake := &fakePostService{}
		router := newDeleteRouter(fake, "author-1")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/admin/posts/abc", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("缺少用户身份返回 401", func(t *testing.T) {
		fake := &fakePostService{}
		router := newDeleteRouter(fake, "")

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/admin/posts/42", nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})
}
