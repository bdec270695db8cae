package controller

import (
	"net/http"
	"strconv"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/blog_service/service"
)

// PopularPostController 定义热门文章接口的控制器。
type PopularPostController struct {
	popularService service.PopularPostService
}

// NewPopularPostController 构造函数，用于创建 PopularPostController 实例
func NewPopularPostController(popularService service.PopularPostService) *PopularPostController {
	return &PopularPostController{
		popularService: popularService,
	}
}

// GetPopularPosts 获取热门文章列表
// @Summary      获取热门文章列表 (公开)
// @Description  返回按浏览热度排序的文章列表，全部命中 Redis 缓存，浏览量为缓存刷新时的快照值。
// @Tags         posts (文章)
// @Accept       json
// @Produce      json
// @Param        limit query int false "返回数量，缺省为榜单全量" format(int32) minimum(1)
// @Success      200 {object} vo.PostListResponseWrapper "成功响应，包含热门文章列表"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求参数"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/blog/posts/popular [get]
func (ctrl *PopularPostController) GetPopularPosts(c *gin.Context) {
	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的 limit 参数")
			return
		}
		limit = parsed
	}

	posts, err := ctrl.popularService.GetPopularPosts(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err, "获取热门文章")
		return
	}

	response.RespondSuccess(c, posts, "热门文章获取成功")
}

// RegisterRoutes 注册热门文章路由。
func (ctrl *PopularPostController) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/posts/popular", ctrl.GetPopularPosts) // GET /api/v1/blog/posts/popular
}
