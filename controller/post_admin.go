package controller

import (
	"net/http"
	"strconv"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/blog_service/models/dto"
	"github.com/Xushengqwer/blog_service/service"
)

// PostAdminController 定义作者后台写接口的控制器。
// 路由层挂在鉴权中间件之后，UserID 由网关透传。
type PostAdminController struct {
	postService     service.PostService
	postListService service.PostListService
}

// NewPostAdminController 构造函数，用于创建 PostAdminController 实例
func NewPostAdminController(postService service.PostService, postListService service.PostListService) *PostAdminController {
	return &PostAdminController{
		postService:     postService,
		postListService: postListService,
	}
}

// CreatePost 创建文章
// @Summary      创建文章
// @Description  创建一篇新文章。slug 未提供时由标题派生；阅读时长由正文字数推导；tags 中不存在的标签名会被隐式创建。
// @Tags         admin (作者后台)
// @Accept       json
// @Produce      json
// @Param        request body dto.CreatePostRequest true "创建文章请求体"
// @Success      200 {object} vo.PostResponseWrapper "成功响应，包含创建的文章"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求参数"
// @Failure      401 {object} vo.BaseResponseWrapper "用户未授权"
// @Failure      409 {object} vo.BaseResponseWrapper "slug 已被占用"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/blog/admin/posts [post]
func (ctrl *PostAdminController) CreatePost(c *gin.Context) {
	var reqDTO dto.CreatePostRequest
	if err := c.ShouldBindJSON(&reqDTO); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求体: "+err.Error())
		return
	}

	authorID, ok := currentUserID(c)
	if !ok {
		return
	}

	postVO, err := ctrl.postService.CreatePost(c.Request.Context(), authorID, &reqDTO)
	if err != nil {
		respondServiceError(c, err, "创建文章")
		return
	}

	response.RespondSuccess(c, postVO, "文章创建成功")
}

// MutatePost 更新文章
// @Summary      更新文章
// @Description  更新文章的任意字段组合，仅作者本人可操作。tags 提供时整体替换现有标签；published 切换会同步维护发布时间。
// @Tags         admin (作者后台)
// @Accept       json
// @Produce      json
// @Param        id path uint64 true "文章ID" format(uint64) minimum(1)
// @Param        request body dto.MutatePostRequest true "更新文章请求体（所有字段可选）"
// @Success      200 {object} vo.PostResponseWrapper "成功响应，包含更新后的文章"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求参数"
// @Failure      401 {object} vo.BaseResponseWrapper "用户未授权"
// @Failure      403 {object} vo.BaseResponseWrapper "非作者本人"
// @Failure      404 {object} vo.BaseResponseWrapper "文章不存在"
// @Failure      409 {object} vo.BaseResponseWrapper "slug 已被占用"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/blog/admin/posts/{id} [put]
func (ctrl *PostAdminController) MutatePost(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || postID == 0 {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的文章 ID")
		return
	}

	var reqDTO dto.MutatePostRequest
	if err := c.ShouldBindJSON(&reqDTO); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求体: "+err.Error())
		return
	}

	authorID, ok := currentUserID(c)
	if !ok {
		return
	}

	postVO, err := ctrl.postService.MutatePost(c.Request.Context(), authorID, postID, &reqDTO)
	if err != nil {
		respondServiceError(c, err, "更新文章")
		return
	}

	response.RespondSuccess(c, postVO, "文章更新成功")
}

// DeletePost 删除文章
// @Summary      删除文章
// @Description  软删除一篇文章，仅作者本人可操作。关联的标签行保留。响应携带删除前的文章数据，供客户端回收本地缓存。
// @Tags         admin (作者后台)
// @Accept       json
// @Produce      json
// @Param        id path uint64 true "文章ID" format(uint64) minimum(1)
// @Success      200 {object} vo.PostResponseWrapper "删除成功，包含删除前的文章数据"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求参数"
// @Failure      401 {object} vo.BaseResponseWrapper "用户未授权"
// @Failure      403 {object} vo.BaseResponseWrapper "非作者本人"
// @Failure      404 {object} vo.BaseResponseWrapper "文章不存在"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/blog/admin/posts/{id} [delete]
func (ctrl *PostAdminController) DeletePost(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || postID == 0 {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的文章 ID")
		return
	}

	authorID, ok := currentUserID(c)
	if !ok {
		return
	}

	deletedVO, err := ctrl.postService.DeletePost(c.Request.Context(), authorID, postID)
	if err != nil {
		respondServiceError(c, err, "删除文章")
		return
	}

	response.RespondSuccess(c, deletedVO, "文章删除成功")
}

// ListAll 获取全部文章列表（含草稿）
// @Summary      获取全部文章列表
// @Description  游标分页获取全部文章（含草稿，不区分作者），按创建时间倒序，支持全文搜索。
// @Tags         admin (作者后台)
// @Accept       json
// @Produce      json
// @Param        limit query int false "每页数量 (1~50)" format(int32) minimum(1) maximum(50) default(10)
// @Param        cursor query uint64 false "上一页最后一条记录的文章ID" format(uint64) minimum(1)
// @Param        query query string false "全文搜索关键词 (最大长度 100)" maxLength(100)
// @Success      200 {object} vo.PostPageResponseWrapper "成功响应，包含文章列表和下一页游标"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求参数"
// @Failure      401 {object} vo.BaseResponseWrapper "用户未授权"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/blog/admin/posts [get]
func (ctrl *PostAdminController) ListAll(c *gin.Context) {
	var reqDTO dto.ListPostsRequestDTO
	if err := c.ShouldBindQuery(&reqDTO); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}

	if _, ok := currentUserID(c); !ok {
		return
	}

	pageVO, err := ctrl.postListService.ListAll(c.Request.Context(), &reqDTO)
	if err != nil {
		respondServiceError(c, err, "获取全部文章列表")
		return
	}

	response.RespondSuccess(c, pageVO, "全部文章列表获取成功")
}

// UploadCover 上传封面图
// @Summary      上传封面图
// @Description  上传一张封面图到对象存储并返回公开 URL。图片先上传拿到 URL，再随文章创建/更新请求提交。
// @Tags         admin (作者后台)
// @Accept       multipart/form-data
// @Produce      json
// @Param        cover formData file true "封面图文件"
// @Success      200 {object} vo.CoverUploadResponseWrapper "成功响应，包含图片 URL 与对象键"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求参数"
// @Failure      401 {object} vo.BaseResponseWrapper "用户未授权"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/blog/admin/covers [post]
func (ctrl *PostAdminController) UploadCover(c *gin.Context) {
	fileHeader, err := c.FormFile("cover")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "未提供封面图文件: "+err.Error())
		return
	}

	authorID, ok := currentUserID(c)
	if !ok {
		return
	}

	uploadVO, err := ctrl.postService.UploadCoverImage(c.Request.Context(), authorID, fileHeader)
	if err != nil {
		respondServiceError(c, err, "上传封面图")
		return
	}

	response.RespondSuccess(c, uploadVO, "封面图上传成功")
}

// RegisterRoutes 注册作者后台路由。
func (ctrl *PostAdminController) RegisterRoutes(group *gin.RouterGroup) {
	admin := group.Group("/admin")
	{
		admin.POST("/posts", ctrl.CreatePost)       // POST /api/v1/blog/admin/posts
		admin.GET("/posts", ctrl.ListAll)           // GET /api/v1/blog/admin/posts
		admin.PUT("/posts/:id", ctrl.MutatePost)    // PUT /api/v1/blog/admin/posts/:id
		admin.DELETE("/posts/:id", ctrl.DeletePost) // DELETE /api/v1/blog/admin/posts/:id
		admin.POST("/covers", ctrl.UploadCover)     // POST /api/v1/blog/admin/covers
	}
}
