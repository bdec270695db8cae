package service

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/Xushengqwer/blog_service/models/dto"
	"github.com/Xushengqwer/blog_service/models/entities"
	"github.com/Xushengqwer/blog_service/myErrors"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestResolveSlug(t *testing.T) {
	t.Run("显式 slug 优先", func(t *testing.T) {
		slug, err := resolveSlug(strPtr("custom-slug"), "Some Title")
		if err != nil {
			t.Fatalf("err = %v", err)
		}
		if slug != "custom-slug" {
			t.Errorf("slug = %q, want %q", slug, "custom-slug")
		}
	})

	t.Run("显式 slug 格式非法", func(t *testing.T) {
		_, err := resolveSlug(strPtr("Invalid Slug!"), "Some Title")
		if !errors.Is(err, myErrors.ErrInvalidSlug) {
			t.Errorf("err = %v, want ErrInvalidSlug", err)
		}
	})

	t.Run("空指针由标题派生", func(t *testing.T) {
		slug, err := resolveSlug(nil, "Hello, World!")
		if err != nil {
			t.Fatalf("err = %v", err)
		}
		if slug != "hello-world" {
			t.Errorf("slug = %q, want %q", slug, "hello-world")
		}
	})

	t.Run("空串等同未提供", func(t *testing.T) {
		slug, err := resolveSlug(strPtr(""), "My First Post")
		if err != nil {
			t.Fatalf("err = %v", err)
		}
		if slug != "my-first-post" {
			t.Errorf("slug = %q, want %q", slug, "my-first-post")
		}
	})

	t.Run("标题无法派生出合法 slug", func(t *testing.T) {
		_, err := resolveSlug(nil, "!!!")
		if !errors.Is(err, myErrors.ErrInvalidSlug) {
			t.Errorf("err = %v, want ErrInvalidSlug", err)
		}
	})
}

func TestResolveMutationSlug(t *testing.T) {
	basePost := func() *entities.Post {
		return &entities.Post{Title: "Old Title", Slug: "old-title"}
	}

	t.Run("无变更保持现值", func(t *testing.T) {
		slug, changed, err := resolveMutationSlug(basePost(), &dto.MutatePostRequest{})
		if err != nil {
			t.Fatalf("err = %v", err)
		}
		if changed || slug != "old-title" {
			t.Errorf("slug = %q changed = %v, want old-title/false", slug, changed)
		}
	})

	t.Run("显式 slug 优先于标题派生", func(t *testing.T) {
		req := &dto.MutatePostRequest{Title: strPtr("Brand New Title"), Slug: strPtr("explicit-slug")}
		slug, changed, err := resolveMutationSlug(basePost(), req)
		if err != nil {
			t.Fatalf("err = %v", err)
		}
		if !changed || slug != "explicit-slug" {
			t.Errorf("slug = %q changed = %v, want explicit-slug/true", slug, changed)
		}
	})

	t.Run("显式 slug 与现值相同视为未变更", func(t *testing.T) {
		req := &dto.MutatePostRequest{Slug: strPtr("old-title")}
		slug, changed, err := resolveMutationSlug(basePost(), req)
		if err != nil {
			t.Fatalf("err = %v", err)
		}
		if changed || slug != "old-title" {
			t.Errorf("slug = %q changed = %v, want old-title/false", slug, changed)
		}
	})

	t.Run("标题变更重新派生 slug", func(t *testing.T) {
		req := &dto.MutatePostRequest{Title: strPtr("Brand New Title")}
		slug, changed, err := resolveMutationSlug(basePost(), req)
		if err != nil {
			t.Fatalf("err = %v", err)
		}
		if !changed || slug != "brand-new-title" {
			t.Errorf("slug = %q changed = %v, want brand-new-title/true", slug, changed)
		}
	})

	t.Run("标题未变则不派生", func(t *testing.T) {
		req := &dto.MutatePostRequest{Title: strPtr("Old Title")}
		slug, changed, err := resolveMutationSlug(basePost(), req)
		if err != nil {
			t.Fatalf("err = %v", err)
		}
		if changed || slug != "old-title" {
			t.Errorf("slug = %q changed = %v, want old-title/false", slug, changed)
		}
	})

	t.Run("派生结果与现值相同视为未变更", func(t *testing.T) {
		req := &dto.MutatePostRequest{Title: strPtr("OLD TITLE")}
		slug, changed, err := resolveMutationSlug(basePost(), req)
		if err != nil {
			t.Fatalf("err = %v", err)
		}
		if changed || slug != "old-title" {
			t.Errorf("slug = %q changed = %v, want old-title/false", slug, changed)
		}
	})

	t.Run("非法显式 slug", func(t *testing.T) {
		req := &dto.MutatePostRequest{Slug: strPtr("Bad Slug!")}
		_, _, err := resolveMutationSlug(basePost(), req)
		if !errors.Is(err, myErrors.ErrInvalidSlug) {
			t.Errorf("err = %v, want ErrInvalidSlug", err)
		}
	})

	t.Run("新标题派生不出合法 slug", func(t *testing.T) {
		req := &dto.MutatePostRequest{Title: strPtr("!!!")}
		_, _, err := resolveMutationSlug(basePost(), req)
		if !errors.Is(err, myErrors.ErrInvalidSlug) {
			t.Errorf("err = %v, want ErrInvalidSlug", err)
		}
	})
}

func TestNormalizeTagNames(t *testing.T) {
	cases := []struct {
		name  string
		input []string
		want  []string
	}{
		{"空列表", nil, nil},
		{"去首尾空白", []string{" go ", "mysql"}, []string{"go", "mysql"}},
		{"丢弃空串", []string{"go", "", "  "}, []string{"go"}},
		{"保序去重", []string{"go", "mysql", "go"}, []string{"go", "mysql"}},
		{"去空白后重复也去重", []string{"go", " go"}, []string{"go"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := normalizeTagNames(tc.input)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("normalizeTagNames(%v) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestBuildMutationUpdates(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cover := "https://cdn.example.com/old.png"

	basePost := func() *entities.Post {
		return &entities.Post{
			Title:       "Old Title",
			Excerpt:     "Old excerpt",
			Content:     "old content with some words",
			CoverImage:  &cover,
			Slug:        "old-title",
			Published:   false,
			ReadTimeMin: 1,
		}
	}

	t.Run("空请求无变更", func(t *testing.T) {
		updates, becamePublished := buildMutationUpdates(basePost(), &dto.MutatePostRequest{}, now)
		if len(updates) != 0 {
			t.Errorf("空请求不应产生变更: %v", updates)
		}
		if becamePublished {
			t.Error("becamePublished 应为 false")
		}
	})

	t.Run("与当前值相同视为未变更", func(t *testing.T) {
		req := &dto.MutatePostRequest{
			Title:     strPtr("Old Title"),
			Slug:      strPtr("old-title"),
			Published: boolPtr(false),
		}
		updates, _ := buildMutationUpdates(basePost(), req, now)
		if len(updates) != 0 {
			t.Errorf("相同值不应产生变更: %v", updates)
		}
	})

	t.Run("正文变更联动阅读时长", func(t *testing.T) {
		req := &dto.MutatePostRequest{Content: strPtr("brand new content body")}
		updates, _ := buildMutationUpdates(basePost(), req, now)
		if updates["content"] != "brand new content body" {
			t.Errorf("content = %v", updates["content"])
		}
		if _, ok := updates["read_time_min"]; !ok {
			t.Error("正文变更应重算 read_time_min")
		}
	})

	t.Run("仅改标题不动阅读时长", func(t *testing.T) {
		req := &dto.MutatePostRequest{Title: strPtr("New Title")}
		updates, _ := buildMutationUpdates(basePost(), req, now)
		if _, ok := updates["read_time_min"]; ok {
			t.Error("标题变更不应重算 read_time_min")
		}
		if _, ok := updates["slug"]; ok {
			t.Error("slug 由 resolveMutationSlug 处理, 不应出现在字段推导里")
		}
	})

	t.Run("草稿转发布", func(t *testing.T) {
		req := &dto.MutatePostRequest{Published: boolPtr(true)}
		updates, becamePublished := buildMutationUpdates(basePost(), req, now)
		if !becamePublished {
			t.Fatal("becamePublished 应为 true")
		}
		if updates["published"] != true {
			t.Errorf("published = %v", updates["published"])
		}
		if updates["published_at"] != now {
			t.Errorf("published_at = %v, want %v", updates["published_at"], now)
		}
	})

	t.Run("发布转草稿清空发布时间", func(t *testing.T) {
		post := basePost()
		post.Published = true
		publishedAt := now.Add(-24 * time.Hour)
		post.PublishedAt = &publishedAt

		req := &dto.MutatePostRequest{Published: boolPtr(false)}
		updates, becamePublished := buildMutationUpdates(post, req, now)
		if becamePublished {
			t.Error("下线不应标记为发布")
		}
		if updates["published"] != false {
			t.Errorf("published = %v", updates["published"])
		}
		if updates["published_at"] != nil {
			t.Errorf("published_at 应清空, 得到 %v", updates["published_at"])
		}
	})

	t.Run("重复发布不刷新发布时间", func(t *testing.T) {
		post := basePost()
		post.Published = true
		publishedAt := now.Add(-24 * time.Hour)
		post.PublishedAt = &publishedAt

		req := &dto.MutatePostRequest{Published: boolPtr(true)}
		updates, becamePublished := buildMutationUpdates(post, req, now)
		if becamePublished {
			t.Error("已发布文章再次发布不应触发事件")
		}
		if _, ok := updates["published_at"]; ok {
			t.Error("已发布文章的发布时间不应被覆盖")
		}
	})

	t.Run("空串清除封面", func(t *testing.T) {
		req := &dto.MutatePostRequest{CoverImage: strPtr("")}
		updates, _ := buildMutationUpdates(basePost(), req, now)
		val, ok := updates["cover_image"]
		if !ok {
			t.Fatal("应产生 cover_image 变更")
		}
		if val != nil {
			t.Errorf("cover_image = %v, want nil", val)
		}
	})

	t.Run("替换封面", func(t *testing.T) {
		req := &dto.MutatePostRequest{CoverImage: strPtr("https://cdn.example.com/new.png")}
		updates, _ := buildMutationUpdates(basePost(), req, now)
		if updates["cover_image"] != "https://cdn.example.com/new.png" {
			t.Errorf("cover_image = %v", updates["cover_image"])
		}
	})

	t.Run("相同封面不产生变更", func(t *testing.T) {
		req := &dto.MutatePostRequest{CoverImage: strPtr(cover)}
		updates, _ := buildMutationUpdates(basePost(), req, now)
		if _, ok := updates["cover_image"]; ok {
			t.Error("相同封面不应产生变更")
		}
	})
}

// 只替换标签的更新也必须写 posts 行，否则 updated_at 不会被刷新。
func TestMutationPersistsRow(t *testing.T) {
	basePost := func() *entities.Post {
		return &entities.Post{Title: "Old Title", Slug: "old-title"}
	}

	t.Run("仅标签变更也要写行", func(t *testing.T) {
		req := &dto.MutatePostRequest{Tags: &[]string{"go", "mysql"}}
		updates, _ := buildMutationUpdates(basePost(), req, time.Now())
		if len(updates) != 0 {
			t.Fatalf("仅标签请求不应产生字段变更, got %v", updates)
		}
		if !mutationPersistsRow(updates, req) {
			t.Error("仅标签变更应触发 UpdatePostFields 以刷新 updated_at")
		}
	})

	t.Run("清空标签同样要写行", func(t *testing.T) {
		req := &dto.MutatePostRequest{Tags: &[]string{}}
		if !mutationPersistsRow(map[string]interface{}{}, req) {
			t.Error("清空标签也属于成功更新，应刷新 updated_at")
		}
	})

	t.Run("字段变更照常写行", func(t *testing.T) {
		req := &dto.MutatePostRequest{Title: strPtr("新标题")}
		updates, _ := buildMutationUpdates(basePost(), req, time.Now())
		if !mutationPersistsRow(updates, req) {
			t.Error("字段级变更应写 posts 行")
		}
	})

	t.Run("空请求不写行", func(t *testing.T) {
		req := &dto.MutatePostRequest{}
		if mutationPersistsRow(map[string]interface{}{}, req) {
			t.Error("没有任何变更时不应触碰 posts 行")
		}
	})
}
