package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/blog_service/config"
	"github.com/Xushengqwer/blog_service/models/events"
)

// KafkaProducer Kafka 消息生产者
type KafkaProducer struct {
	writer *kafka.Writer
	logger *core.ZapLogger
	topics config.Topics
}

// NewKafkaProducer 创建一个新的 Kafka 生产者实例
func NewKafkaProducer(config config.KafkaConfig, logger *core.ZapLogger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(config.Brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &KafkaProducer{
		writer: writer,
		logger: logger,
		topics: config.Topics,
	}
}

// SendEvent 发送事件到指定 Kafka 主题
func (p *KafkaProducer) SendEvent(ctx context.Context, topic string, event interface{}) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal event", zap.Error(err), zap.String("topic", topic))
		return err
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Value: eventBytes,
	})

	if err != nil {
		p.logger.Error("Failed to write Kafka message", zap.Error(err), zap.String("topic", topic))
	} else {
		p.logger.Info("Successfully sent Kafka message", zap.String("topic", topic))
	}
	return err
}

// SendPostPublishedEvent 发送文章发布事件到 Kafka。
// - 意图: 文章首次发布后通知下游（订阅邮件分发、搜索索引等）
// - 输入: ctx 上下文, postData 文章核心数据
func (p *KafkaProducer) SendPostPublishedEvent(ctx context.Context, postData events.PostEventData) error {
	event := events.PostPublishedEvent{
		EventID:   uuid.New().String(),
		Timestamp: time.Now(),
		Post:      postData,
	}
	return p.SendEvent(ctx, p.topics.PostPublished, event)
}

// SendPostDeletedEvent 发送文章删除事件到 Kafka。
// - 意图: 通知下游清理衍生数据（搜索索引、外部缓存）
func (p *KafkaProducer) SendPostDeletedEvent(ctx context.Context, postID uint64, slug string) error {
	event := events.PostDeletedEvent{
		EventID:   uuid.New().String(),
		Timestamp: time.Now(),
		PostID:    postID,
		Slug:      slug,
	}
	return p.SendEvent(ctx, p.topics.PostDeleted, event)
}

// Close 关闭底层 writer，释放连接。
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
