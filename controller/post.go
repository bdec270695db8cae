package controller

import (
	"net/http"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/blog_service/models/dto"
	"github.com/Xushengqwer/blog_service/service"
)

// PostController 定义文章公开读接口的控制器。
type PostController struct {
	postService     service.PostService
	postListService service.PostListService
}

// NewPostController 构造函数，用于创建 PostController 实例
func NewPostController(postService service.PostService, postListService service.PostListService) *PostController {
	return &PostController{
		postService:     postService,
		postListService: postListService,
	}
}

// ListPublished 获取已发布文章列表 (游标分页)
// @Summary      获取已发布文章列表 (公开)
// @Description  游标分页获取已发布文章，按发布时间倒序，支持全文搜索。列表项不携带正文。
// @Tags         posts (文章)
// @Accept       json
// @Produce      json
// @Param        limit query int false "每页数量 (1~50)" format(int32) minimum(1) maximum(50) default(10)
// @Param        cursor query uint64 false "上一页最后一条记录的文章ID" format(uint64) minimum(1)
// @Param        query query string false "全文搜索关键词 (最大长度 100)" maxLength(100)
// @Success      200 {object} vo.PostPageResponseWrapper "成功响应，包含文章列表和下一页游标"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求参数"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/blog/posts [get]
func (ctrl *PostController) ListPublished(c *gin.Context) {
	var reqDTO dto.ListPostsRequestDTO
	if err := c.ShouldBindQuery(&reqDTO); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}

	pageVO, err := ctrl.postListService.ListPublished(c.Request.Context(), &reqDTO)
	if err != nil {
		respondServiceError(c, err, "获取文章列表")
		return
	}

	response.RespondSuccess(c, pageVO, "文章列表获取成功")
}

// ListWithFilters 按条件筛选文章列表 (游标分页)
// @Summary      条件筛选文章列表 (公开)
// @Description  按发布状态、标签、创建时间窗口和全文搜索的任意组合筛选文章，条件之间取 AND。
// @Tags         posts (文章)
// @Accept       json
// @Produce      json
// @Param        limit query int false "每页数量 (1~50)" format(int32) minimum(1) maximum(50) default(10)
// @Param        cursor query uint64 false "上一页最后一条记录的文章ID" format(uint64) minimum(1)
// @Param        status query string false "发布状态" Enums(all,published,draft) default(all)
// @Param        tags query []string false "标签名列表，命中任意一个即通过" collectionFormat(multi)
// @Param        from query string false "创建时间下界 (RFC3339)" format(date-time)
// @Param        to query string false "创建时间上界 (RFC3339)" format(date-time)
// @Param        query query string false "全文搜索关键词 (最大长度 100)" maxLength(100)
// @Success      200 {object} vo.PostPageResponseWrapper "成功响应，包含文章列表和下一页游标"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求参数"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/blog/posts/filter [get]
func (ctrl *PostController) ListWithFilters(c *gin.Context) {
	var reqDTO dto.ListWithFiltersRequestDTO
	if err := c.ShouldBindQuery(&reqDTO); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}

	pageVO, err := ctrl.postListService.ListWithFilters(c.Request.Context(), &reqDTO)
	if err != nil {
		respondServiceError(c, err, "筛选文章列表")
		return
	}

	response.RespondSuccess(c, pageVO, "文章列表筛选成功")
}

// FindBySlug 按 slug 获取单篇文章
// @Summary      按 slug 获取文章 (公开)
// @Description  返回单篇文章的完整内容（含正文与标签）。已发布文章的访问会异步累计浏览量。
// @Tags         posts (文章)
// @Accept       json
// @Produce      json
// @Param        slug path string true "文章的 URL 标识" maxLength(120)
// @Success      200 {object} vo.PostResponseWrapper "成功响应，包含文章完整内容"
// @Failure      404 {object} vo.BaseResponseWrapper "文章不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/blog/posts/{slug} [get]
func (ctrl *PostController) FindBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "slug 不能为空")
		return
	}

	postVO, err := ctrl.postService.FindBySlug(c.Request.Context(), slug, visitorIdentity(c))
	if err != nil {
		respondServiceError(c, err, "获取文章")
		return
	}

	response.RespondSuccess(c, postVO, "文章获取成功")
}

// GetTags 获取全部标签及文章数
// @Summary      获取标签列表 (公开)
// @Description  返回全部标签及其关联文章数（含草稿），按文章数倒序。计数为查询时实时统计。
// @Tags         tags (标签)
// @Accept       json
// @Produce      json
// @Success      200 {object} vo.TagListResponseWrapper "成功响应，包含标签列表"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/blog/tags [get]
func (ctrl *PostController) GetTags(c *gin.Context) {
	tags, err := ctrl.postListService.GetTags(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "获取标签列表")
		return
	}

	response.RespondSuccess(c, tags, "标签列表获取成功")
}

// RegisterRoutes 注册公开读路由。
func (ctrl *PostController) RegisterRoutes(group *gin.RouterGroup) {
	posts := group.Group("/posts")
	{
		posts.GET("", ctrl.ListPublished)        // GET /api/v1/blog/posts
		posts.GET("/filter", ctrl.ListWithFilters) // GET /api/v1/blog/posts/filter
		posts.GET("/:slug", ctrl.FindBySlug)     // GET /api/v1/blog/posts/:slug
	}
	group.GET("/tags", ctrl.GetTags) // GET /api/v1/blog/tags
}
