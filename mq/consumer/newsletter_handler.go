package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/models/events"
	"github.com/Xushengqwer/blog_service/repo/mysql"
)

// MessageHandler 定义了处理 Kafka 消息的接口
type MessageHandler interface {
	Handle(ctx context.Context, msg kafka.Message) error
}

// EmailDispatcher 抽象邮件投递。
// 实际投递走邮件服务商；本服务只负责决定"给谁发什么"。
type EmailDispatcher interface {
	Dispatch(ctx context.Context, to string, subject string, body string) error
}

// --- PostPublishedHandler ---

// PostPublishedHandler 消费文章发布事件，向全部订阅者分发新文章通知。
type PostPublishedHandler struct {
	logger         *core.ZapLogger
	newsletterRepo mysql.NewsletterRepository
	dispatcher     EmailDispatcher
}

func NewPostPublishedHandler(logger *core.ZapLogger, newsletterRepo mysql.NewsletterRepository, dispatcher EmailDispatcher) *PostPublishedHandler {
	return &PostPublishedHandler{
		logger:         logger,
		newsletterRepo: newsletterRepo,
		dispatcher:     dispatcher,
	}
}

func (h *PostPublishedHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var event events.PostPublishedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("PostPublishedHandler: 反序列化 Kafka 消息失败", zap.Error(err), zap.ByteString("value", msg.Value))
		return nil // 不重试无法解析的消息
	}

	h.logger.Info("PostPublishedHandler: 收到文章发布事件",
		zap.String("event_id", event.EventID),
		zap.Uint64("post_id", event.Post.ID),
		zap.String("slug", event.Post.Slug))

	emails, err := h.newsletterRepo.ListEmails(ctx)
	if err != nil {
		// 返回错误让上层记录；订阅列表查询失败属于可重试场景
		return fmt.Errorf("PostPublishedHandler: 获取订阅邮箱失败: %w", err)
	}
	if len(emails) == 0 {
		h.logger.Info("PostPublishedHandler: 没有订阅者，跳过分发", zap.Uint64("post_id", event.Post.ID))
		return nil
	}

	subject := fmt.Sprintf("新文章发布: %s", event.Post.Title)
	body := fmt.Sprintf("%s\n\n%s", event.Post.Title, event.Post.Excerpt)

	failed := 0
	for _, email := range emails {
		dispatchCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		dispatchErr := h.dispatcher.Dispatch(dispatchCtx, email, subject, body)
		cancel()
		if dispatchErr != nil {
			// 单个邮箱失败不中断整体分发
			failed++
			h.logger.Error("PostPublishedHandler: 投递通知失败",
				zap.Error(dispatchErr),
				zap.String("email", email),
				zap.Uint64("post_id", event.Post.ID))
		}
	}

	h.logger.Info("PostPublishedHandler: 通知分发完成",
		zap.Uint64("post_id", event.Post.ID),
		zap.Int("total", len(emails)),
		zap.Int("failed", failed))
	return nil
}

// --- logDispatcher ---

// logDispatcher 只记录投递意图的 EmailDispatcher 实现。
// 邮件服务商的接入保密凭证不随服务走，开发与测试环境用它兜底。
type logDispatcher struct {
	logger *core.ZapLogger
}

// NewLogDispatcher 创建日志型邮件分发器。
func NewLogDispatcher(logger *core.ZapLogger) EmailDispatcher {
	return &logDispatcher{logger: logger}
}

func (d *logDispatcher) Dispatch(_ context.Context, to string, subject string, _ string) error {
	d.logger.Info("模拟投递订阅邮件", zap.String("to", to), zap.String("subject", subject))
	return nil
}
