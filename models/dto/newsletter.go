package dto

// SubscribeNewsletterRequest 定义了邮件订阅的请求体。
type SubscribeNewsletterRequest struct {
	// 订阅邮箱，必填且必须是合法邮箱格式
	Email string `json:"email" binding:"required,email,max=255"`
}
