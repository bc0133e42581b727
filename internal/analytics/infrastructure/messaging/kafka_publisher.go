package messaging

import (
	"context"

	"github.com/wyfcoding/portfolioanalytics/internal/analytics/domain"
	"github.com/wyfcoding/portfolioanalytics/pkg/logger"
	"github.com/wyfcoding/portfolioanalytics/pkg/mq"
)

// KafkaEventPublisher 基于 Kafka 的事件发布实现。
type KafkaEventPublisher struct {
	producer *mq.KafkaProducer
	topic    string
}

// NewKafkaEventPublisher 创建 Kafka 事件发布器。
func NewKafkaEventPublisher(producer *mq.KafkaProducer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

// PublishReportCompleted 发布报告完成事件，以报告 ID 作为分区键。
func (p *KafkaEventPublisher) PublishReportCompleted(ctx context.Context, event domain.ReportCompletedEvent) error {
	return p.producer.SendMessage(ctx, p.topic, event.ReportID, event)
}

// NoopEventPublisher 空实现，Kafka 未启用时使用。
type NoopEventPublisher struct{}

// NewNoopEventPublisher 创建空事件发布器。
func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

// PublishReportCompleted 仅记录日志，不做实际发布。
func (p *NoopEventPublisher) PublishReportCompleted(ctx context.Context, event domain.ReportCompletedEvent) error {
	logger.Debug(ctx, "event publishing disabled, dropping report completed event", "report_id", event.ReportID)
	return nil
}
