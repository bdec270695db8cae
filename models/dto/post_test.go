package dto

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
)

func bindJSON(t *testing.T, body string, obj interface{}) error {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return binding.JSON.Bind(req, obj)
}

// 更新请求的封面图校验要与创建请求保持一致: 非空值必须是合法 URL，
// 空串作为清除封面的约定值放行。
func TestMutatePostRequestCoverImageBinding(t *testing.T) {
	t.Run("非法 URL 被拒绝", func(t *testing.T) {
		var req MutatePostRequest
		err := bindJSON(t, `{"coverImage": "not a url at all"}`, &req)
		if err == nil {
			t.Error("非法的封面图 URL 应校验失败")
		}
	})

	t.Run("合法 URL 通过", func(t *testing.T) {
		var req MutatePostRequest
		err := bindJSON(t, `{"coverImage": "https://cdn.example.com/cover.png"}`, &req)
		if err != nil {
			t.Fatalf("合法 URL 不应校验失败: %v", err)
		}
		if req.CoverImage == nil || *req.CoverImage != "https://cdn.example.com/cover.png" {
			t.Errorf("CoverImage = %v", req.CoverImage)
		}
	})

	t.Run("空串清除封面放行", func(t *testing.T) {
		var req MutatePostRequest
		err := bindJSON(t, `{"coverImage": ""}`, &req)
		if err != nil {
			t.Fatalf("空串表示清除封面，不应校验失败: %v", err)
		}
		if req.CoverImage == nil || *req.CoverImage != "" {
			t.Error("空串应保留为已提供的清除指令")
		}
	})

	t.Run("未提供时不参与校验", func(t *testing.T) {
		var req MutatePostRequest
		err := bindJSON(t, `{"title": "改个标题而已"}`, &req)
		if err != nil {
			t.Fatalf("未提供封面图不应校验失败: %v", err)
		}
		if req.CoverImage != nil {
			t.Error("未提供的封面图应保持 nil")
		}
	})
}

func TestCreatePostRequestCoverImageBinding(t *testing.T) {
	t.Run("非法 URL 被拒绝", func(t *testing.T) {
		var req CreatePostRequest
		body := `{"title": "一篇文章", "content": "正文内容至少十个字符长", "excerpt": "摘要", "coverImage": "not a url at all"}`
		if err := bindJSON(t, body, &req); err == nil {
			t.Error("非法的封面图 URL 应校验失败")
		}
	})

	t.Run("合法 URL 通过", func(t *testing.T) {
		var req CreatePostRequest
		body := `{"title": "一篇文章", "content": "正文内容至少十个字符长", "excerpt": "摘要", "coverImage": "https://cdn.example.com/cover.png"}`
		if err := bindJSON(t, body, &req); err != nil {
			t.Fatalf("合法请求不应校验失败: %v", err)
		}
	})
}
