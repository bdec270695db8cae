package vo

import (
	"time"

	"github.com/Xushengqwer/blog_service/models/entities"
)

// PostResponse 定义了文章的响应数据结构
type PostResponse struct {
	ID          uint64     `json:"id"`                    // 文章ID
	Title       string     `json:"title"`                 // 标题
	Slug        string     `json:"slug"`                  // URL 标识
	Excerpt     string     `json:"excerpt"`               // 摘要
	Content     string     `json:"content,omitempty"`     // Markdown 原文（列表接口不返回）
	CoverImage  *string    `json:"cover_image"`           // 封面图 URL，可能为 null
	ReadTimeMin int        `json:"read_time_min"`         // 预计阅读时长（分钟）
	Published   bool       `json:"published"`             // 是否已发布
	PublishedAt *time.Time `json:"published_at"`          // 发布时间，草稿为 null
	AuthorID    string     `json:"author_id"`             // 作者ID
	ViewCount   int64      `json:"view_count"`            // 浏览量
	Tags        []string   `json:"tags"`                  // 标签名列表
	CreatedAt   time.Time  `json:"created_at"`            // 创建时间
	UpdatedAt   time.Time  `json:"updated_at"`            // 更新时间
}

// PostPageVO 定义了游标分页列表的响应结构。
// - NextCursor 为 nil 表示没有更多数据
type PostPageVO struct {
	Posts      []*PostResponse `json:"posts"`       // 当前页的文章列表
	NextCursor *uint64         `json:"next_cursor"` // 下一页游标（最后一条的ID），nil 表示到底了
}

// TagVO 定义了标签及其文章数的响应结构。
type TagVO struct {
	ID        uint64 `json:"id"`         // 标签ID
	Name      string `json:"name"`       // 标签名
	PostCount int64  `json:"post_count"` // 当前关联的文章数（实时统计）
}

// NewsletterVO 定义了订阅者的响应结构。
type NewsletterVO struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// CoverUploadVO 封面图上传成功后的响应结构。
type CoverUploadVO struct {
	URL       string `json:"url"`        // 可公开访问的图片 URL
	ObjectKey string `json:"object_key"` // COS 对象键，删除时使用
}

// MapPostToResponseVO 将单个文章实体转换为响应 VO（含正文）。
func MapPostToResponseVO(post *entities.Post) *PostResponse {
	if post == nil {
		return nil
	}
	tagNames := make([]string, 0, len(post.Tags))
	for _, tag := range post.Tags {
		tagNames = append(tagNames, tag.Name)
	}
	return &PostResponse{
		ID:          post.ID,
		Title:       post.Title,
		Slug:        post.Slug,
		Excerpt:     post.Excerpt,
		Content:     post.Content,
		CoverImage:  post.CoverImage,
		ReadTimeMin: post.ReadTimeMin,
		Published:   post.Published,
		PublishedAt: post.PublishedAt,
		AuthorID:    post.AuthorID,
		ViewCount:   post.ViewCount,
		Tags:        tagNames,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}
}

// MapPostsToResponseVOs 是一个辅助函数，用于将文章实体列表转换为响应VO列表。
// - 列表场景不携带正文，避免把 5000 字符的 Markdown 全量打到列表接口里
func MapPostsToResponseVOs(posts []*entities.Post) []*PostResponse {
	if len(posts) == 0 {
		return []*PostResponse{} // 返回空切片而不是nil，便于前端处理
	}

	responses := make([]*PostResponse, 0, len(posts))
	for _, post := range posts {
		if post == nil { // 安全检查，尽管不太可能发生
			continue
		}
		item := MapPostToResponseVO(post)
		item.Content = ""
		responses = append(responses, item)
	}
	return responses
}

// MapTagsToVOs 将标签实体列表（PostCount 已由查询填充）转换为 VO 列表。
func MapTagsToVOs(tags []entities.Tag) []*TagVO {
	if len(tags) == 0 {
		return []*TagVO{}
	}
	vos := make([]*TagVO, 0, len(tags))
	for _, tag := range tags {
		vos = append(vos, &TagVO{
			ID:        tag.ID,
			Name:      tag.Name,
			PostCount: tag.PostCount,
		})
	}
	return vos
}
