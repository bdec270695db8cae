package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Xushengqwer/blog_service/models/dto"
	"github.com/Xushengqwer/blog_service/models/entities"
	"github.com/Xushengqwer/blog_service/myErrors"
	"github.com/Xushengqwer/blog_service/repo/mysql"
)

// fakePostRepo 记录最近一次 ListPostsByCursor 调用的参数，返回预设结果。
type fakePostRepo struct {
	mysql.PostRepository

	gotPred   mysql.Predicate
	gotOrder  mysql.PostOrder
	gotCursor *uint64
	gotLimit  int

	posts      []*entities.Post
	nextCursor *uint64
	err        error
}

func (f *fakePostRepo) ListPostsByCursor(ctx context.Context, pred mysql.Predicate, order mysql.PostOrder, cursor *uint64, limit int) ([]*entities.Post, *uint64, error) {
	f.gotPred = pred
	f.gotOrder = order
	f.gotCursor = cursor
	f.gotLimit = limit
	return f.posts, f.nextCursor, f.err
}

// fakeTagRepo 只实现 ListTagsWithCount。
type fakeTagRepo struct {
	mysql.TagRepository

	tags []entities.Tag
	err  error
}

func (f *fakeTagRepo) ListTagsWithCount(ctx context.Context) ([]entities.Tag, error) {
	return f.tags, f.err
}

func hasCondition(pred mysql.Predicate, expr string) bool {
	for _, cond := range pred.Conds {
		if cond.Expr == expr {
			return true
		}
	}
	return false
}

func TestListPublished(t *testing.T) {
	publishedAt := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	post := &entities.Post{
		Title:       "Cursor pagination in practice",
		Slug:        "cursor-pagination-in-practice",
		Content:     "long body that must not leak into the list",
		Published:   true,
		PublishedAt: &publishedAt,
	}
	post.ID = 42

	next := uint64(42)
	repo := &fakePostRepo{posts: []*entities.Post{post}, nextCursor: &next}
	svc := NewPostListService(repo, &fakeTagRepo{}, nil)

	query := "cursor Pagination"
	cursor := uint64(100)
	page, err := svc.ListPublished(context.Background(), &dto.ListPostsRequestDTO{
		Limit:  20,
		Cursor: &cursor,
		Query:  &query,
	})
	if err != nil {
		t.Fatalf("err = %v", err)
	}

	// 公开列表强制只看已发布，并按发布时间排序
	if !hasCondition(repo.gotPred, "published = ?") {
		t.Error("公开列表应携带发布状态约束")
	}
	if repo.gotOrder != mysql.OrderByPublishedAt {
		t.Errorf("order = %v, want OrderByPublishedAt", repo.gotOrder)
	}
	if repo.gotCursor == nil || *repo.gotCursor != 100 {
		t.Errorf("cursor = %v, want 100", repo.gotCursor)
	}
	if repo.gotLimit != 20 {
		t.Errorf("limit = %d, want 20", repo.gotLimit)
	}

	if len(page.Posts) != 1 {
		t.Fatalf("期望 1 条记录, 得到 %d", len(page.Posts))
	}
	if page.Posts[0].Content != "" {
		t.Error("列表项不应携带正文")
	}
	if page.NextCursor == nil || *page.NextCursor != 42 {
		t.Errorf("next_cursor = %v, want 42", page.NextCursor)
	}
}

func TestListPublishedDefaultLimit(t *testing.T) {
	repo := &fakePostRepo{}
	svc := NewPostListService(repo, &fakeTagRepo{}, nil)

	_, err := svc.ListPublished(context.Background(), &dto.ListPostsRequestDTO{})
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if repo.gotLimit != 10 {
		t.Errorf("缺省 limit = %d, want 10", repo.gotLimit)
	}
	if repo.gotCursor != nil {
		t.Errorf("首页 cursor 应为 nil, 得到 %v", repo.gotCursor)
	}
}

func TestListPublishedInvalidQuery(t *testing.T) {
	repo := &fakePostRepo{}
	svc := NewPostListService(repo, &fakeTagRepo{}, nil)

	long := make([]rune, 101)
	for i := range long {
		long[i] = 'a'
	}
	query := string(long)
	_, err := svc.ListPublished(context.Background(), &dto.ListPostsRequestDTO{Query: &query})
	if !errors.Is(err, myErrors.ErrInvalidSearchParams) {
		t.Errorf("err = %v, want ErrInvalidSearchParams", err)
	}
	if repo.gotLimit != 0 {
		t.Error("参数校验失败时不应触达仓库层")
	}
}

func TestListAllIncludesDrafts(t *testing.T) {
	repo := &fakePostRepo{}
	svc := NewPostListService(repo, &fakeTagRepo{}, nil)

	_, err := svc.ListAll(context.Background(), &dto.ListPostsRequestDTO{})
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if hasCondition(repo.gotPred, "published = ?") {
		t.Error("后台列表不应携带发布状态约束")
	}
	if repo.gotOrder != mysql.OrderByCreatedAt {
		t.Errorf("order = %v, want OrderByCreatedAt", repo.gotOrder)
	}
}

func TestListWithFilters(t *testing.T) {
	t.Run("组合条件合并为单个谓词", func(t *testing.T) {
		repo := &fakePostRepo{}
		svc := NewPostListService(repo, &fakeTagRepo{}, nil)

		from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		query := "redis"
		_, err := svc.ListWithFilters(context.Background(), &dto.ListWithFiltersRequestDTO{
			Status: "published",
			Tags:   []string{" go ", "go", "redis"},
			From:   &from,
			Query:  &query,
		})
		if err != nil {
			t.Fatalf("err = %v", err)
		}

		if !hasCondition(repo.gotPred, "published = ?") {
			t.Error("缺少状态条件")
		}
		if !hasCondition(repo.gotPred, "created_at >= ?") {
			t.Error("缺少时间下界条件")
		}
		if !hasCondition(repo.gotPred, "MATCH(title, excerpt, content) AGAINST (? IN BOOLEAN MODE)") {
			t.Error("缺少全文搜索条件")
		}

		// 标签清洗后去重: [go redis]
		for _, cond := range repo.gotPred.Conds {
			if names, ok := cond.Args[0].([]string); ok {
				if len(names) != 2 || names[0] != "go" || names[1] != "redis" {
					t.Errorf("标签参数 = %v, want [go redis]", names)
				}
			}
		}

		if repo.gotOrder != mysql.OrderByPublishedAt {
			t.Errorf("published 筛选应按发布时间排序, 得到 %v", repo.gotOrder)
		}
	})

	t.Run("非 published 状态按创建时间排序", func(t *testing.T) {
		for _, status := range []string{"", "all", "draft"} {
			repo := &fakePostRepo{}
			svc := NewPostListService(repo, &fakeTagRepo{}, nil)

			_, err := svc.ListWithFilters(context.Background(), &dto.ListWithFiltersRequestDTO{Status: status})
			if err != nil {
				t.Fatalf("status=%q err = %v", status, err)
			}
			if repo.gotOrder != mysql.OrderByCreatedAt {
				t.Errorf("status=%q order = %v, want OrderByCreatedAt", status, repo.gotOrder)
			}
		}
	})

	t.Run("无任何条件时谓词为空", func(t *testing.T) {
		repo := &fakePostRepo{}
		svc := NewPostListService(repo, &fakeTagRepo{}, nil)

		_, err := svc.ListWithFilters(context.Background(), &dto.ListWithFiltersRequestDTO{})
		if err != nil {
			t.Fatalf("err = %v", err)
		}
		if !repo.gotPred.IsEmpty() {
			t.Errorf("空筛选应产出空谓词, 得到 %+v", repo.gotPred.Conds)
		}
	})
}

func TestGetTags(t *testing.T) {
	goTag := entities.Tag{Name: "go", PostCount: 5}
	goTag.ID = 1
	mysqlTag := entities.Tag{Name: "mysql", PostCount: 2}
	mysqlTag.ID = 2

	tagRepo := &fakeTagRepo{tags: []entities.Tag{goTag, mysqlTag}}
	svc := NewPostListService(&fakePostRepo{}, tagRepo, nil)

	tags, err := svc.GetTags(context.Background())
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("期望 2 个标签, 得到 %d", len(tags))
	}
	if tags[0].Name != "go" || tags[0].PostCount != 5 {
		t.Errorf("tags[0] = %+v", tags[0])
	}

	wantErr := errors.New("db down")
	svc = NewPostListService(&fakePostRepo{}, &fakeTagRepo{err: wantErr}, nil)
	if _, err := svc.GetTags(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}
