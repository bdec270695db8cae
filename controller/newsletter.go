package controller

import (
	"net/http"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/blog_service/models/dto"
	"github.com/Xushengqwer/blog_service/service"
)

// NewsletterController 定义订阅接口的控制器。
type NewsletterController struct {
	newsletterService service.NewsletterService
}

// NewNewsletterController 构造函数，用于创建 NewsletterController 实例
func NewNewsletterController(newsletterService service.NewsletterService) *NewsletterController {
	return &NewsletterController{
		newsletterService: newsletterService,
	}
}

// Subscribe 订阅新文章通知
// @Summary      订阅新文章通知
// @Description  登记一个订阅邮箱，新文章发布后会收到邮件通知。需要登录。
// @Tags         newsletter (订阅)
// @Accept       json
// @Produce      json
// @Param        request body dto.SubscribeNewsletterRequest true "订阅请求体"
// @Success      200 {object} vo.NewsletterResponseWrapper "订阅成功"
// @Failure      400 {object} vo.BaseResponseWrapper "无效的请求参数"
// @Failure      401 {object} vo.BaseResponseWrapper "用户未授权"
// @Failure      409 {object} vo.BaseResponseWrapper "该邮箱已订阅"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/blog/newsletter/subscribe [post]
func (ctrl *NewsletterController) Subscribe(c *gin.Context) {
	var reqDTO dto.SubscribeNewsletterRequest
	if err := c.ShouldBindJSON(&reqDTO); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求体: "+err.Error())
		return
	}

	if _, ok := currentUserID(c); !ok {
		return
	}

	subVO, err := ctrl.newsletterService.Subscribe(c.Request.Context(), reqDTO.Email)
	if err != nil {
		respondServiceError(c, err, "订阅")
		return
	}

	response.RespondSuccess(c, subVO, "订阅成功")
}

// ListSubscribers 获取订阅者列表
// @Summary      获取订阅者列表
// @Description  列出全部订阅邮箱，按订阅时间倒序。作者后台使用。
// @Tags         newsletter (订阅)
// @Accept       json
// @Produce      json
// @Success      200 {object} vo.NewsletterListResponseWrapper "成功响应，包含订阅者列表"
// @Failure      401 {object} vo.BaseResponseWrapper "用户未授权"
// @Failure      500 {object} vo.BaseResponseWrapper "服务器内部错误"
// @Router       /api/v1/blog/admin/newsletter [get]
func (ctrl *NewsletterController) ListSubscribers(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	subs, err := ctrl.newsletterService.ListSubscribers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "获取订阅者列表")
		return
	}

	response.RespondSuccess(c, subs, "订阅者列表获取成功")
}

// RegisterRoutes 注册订阅路由。
func (ctrl *NewsletterController) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/newsletter/subscribe", ctrl.Subscribe)  // POST /api/v1/blog/newsletter/subscribe
	group.GET("/admin/newsletter", ctrl.ListSubscribers) // GET /api/v1/blog/admin/newsletter
}
