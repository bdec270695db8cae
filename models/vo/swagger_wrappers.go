package vo

// --- 用于成功响应且包含具体 Data 的包装器 ---

// PostPageResponseWrapper 对应 response.APIResponse[vo.PostPageVO]
type PostPageResponseWrapper struct {
	Code    int        `json:"code" example:"0"`
	Message string     `json:"message,omitempty" example:"success"`
	Data    PostPageVO `json:"data"` // 使用具体的 vo.PostPageVO
}

// PostResponseWrapper 对应 response.APIResponse[vo.PostResponse]
type PostResponseWrapper struct {
	Code    int          `json:"code" example:"0"`
	Message string       `json:"message,omitempty" example:"success"`
	Data    PostResponse `json:"data"` // 使用具体的 vo.PostResponse
}

// TagListResponseWrapper 对应 response.APIResponse[[]vo.TagVO]
type TagListResponseWrapper struct {
	Code    int     `json:"code" example:"0"`
	Message string  `json:"message,omitempty" example:"success"`
	Data    []TagVO `json:"data"`
}

// PostListResponseWrapper 对应 response.APIResponse[[]vo.PostResponse]
type PostListResponseWrapper struct {
	Code    int            `json:"code" example:"0"`
	Message string         `json:"message,omitempty" example:"success"`
	Data    []PostResponse `json:"data"`
}

// NewsletterResponseWrapper 对应 response.APIResponse[vo.NewsletterVO]
type NewsletterResponseWrapper struct {
	Code    int          `json:"code" example:"0"`
	Message string       `json:"message,omitempty" example:"success"`
	Data    NewsletterVO `json:"data"`
}

// NewsletterListResponseWrapper 对应 response.APIResponse[[]vo.NewsletterVO]
type NewsletterListResponseWrapper struct {
	Code    int            `json:"code" example:"0"`
	Message string         `json:"message,omitempty" example:"success"`
	Data    []NewsletterVO `json:"data"`
}

// CoverUploadResponseWrapper 对应 response.APIResponse[vo.CoverUploadVO]
type CoverUploadResponseWrapper struct {
	Code    int           `json:"code" example:"0"`
	Message string        `json:"message,omitempty" example:"success"`
	Data    CoverUploadVO `json:"data"`
}

// --- 用于错误响应 或 简单成功响应（只有 Code 和 Message） ---

// BaseResponseWrapper 代表一个只包含 Code 和 Message 的响应。
// 适用于错误情况（RespondError 返回时 Data 为 nil 且 omitempty）
// 或某些成功操作可能也只返回 Code 和 Message。
type BaseResponseWrapper struct {
	Code    int    `json:"code" example:"0"`          // 成功时为 0, 错误时为具体错误码
	Message string `json:"message" example:"success"` // 成功或错误消息
}
