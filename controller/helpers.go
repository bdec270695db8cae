package controller

import (
	"errors"
	"net/http"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/constants"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/blog_service/myErrors"
)

// respondServiceError 把服务层错误映射成统一的 HTTP 响应。
// 映射约定:
//   - 未找到          → 404
//   - slug/邮箱冲突   → 409
//   - 非作者操作      → 403
//   - 参数类错误      → 400
//   - 其余            → 500，对外不暴露内部细节
func respondServiceError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, commonerrors.ErrRepoNotFound):
		response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, action+": 资源不存在")
	case errors.Is(err, myErrors.ErrSlugConflict):
		response.RespondError(c, http.StatusConflict, response.ErrCodeClientInvalidInput, action+": slug 已被占用")
	case errors.Is(err, myErrors.ErrEmailConflict):
		response.RespondError(c, http.StatusConflict, response.ErrCodeClientInvalidInput, action+": 该邮箱已订阅")
	case errors.Is(err, myErrors.ErrForbidden):
		response.RespondError(c, http.StatusForbidden, response.ErrCodeClientUnauthorized, action+": 仅作者本人可操作")
	case errors.Is(err, myErrors.ErrInvalidSlug):
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, action+": slug 格式无效")
	case errors.Is(err, myErrors.ErrInvalidSearchParams):
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, action+": "+err.Error())
	default:
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, action+"失败")
	}
}

// currentUserID 从 gin 上下文取出网关透传的用户 ID。
// 返回 false 时已写好 401 响应，调用方直接 return 即可。
func currentUserID(c *gin.Context) (string, bool) {
	userIDValue, exists := c.Get(string(constants.UserIDKey))
	if !exists {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "无法获取用户信息 (Context Key Not Found)")
		return "", false
	}
	userID, ok := userIDValue.(string)
	if !ok || userID == "" {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "无法获取有效的用户 ID")
		return "", false
	}
	return userID, true
}

// visitorIdentity 返回浏览计数用的访客标识。
// 已登录用户用用户 ID；匿名访客退回到客户端 IP，同一 IP 在防刷窗口内只计一次。
func visitorIdentity(c *gin.Context) string {
	if userIDValue, exists := c.Get(string(constants.UserIDKey)); exists {
		if userID, ok := userIDValue.(string); ok && userID != "" {
			return userID
		}
	}
	return c.ClientIP()
}
