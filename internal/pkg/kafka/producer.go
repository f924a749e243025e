package kafka

import (
	"Agora/internal/api/config"
	"Agora/internal/pkg/logger"
	"context"
	log "log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// FeedProducer 基于 sarama.AsyncProducer 的事件发布器
type FeedProducer struct {
	producer sarama.AsyncProducer
	topic    string
	wg       sync.WaitGroup
}

// NewPublisher Brokers 为空时返回空实现
func NewPublisher(cfg config.KafkaConfig) (Publisher, error) {
	if len(cfg.Brokers) == 0 {
		log.Info("Kafka brokers not configured, feed events disabled")
		return NewNopPublisher(), nil
	}

	producer, err := sarama.NewAsyncProducer(cfg.Brokers, newSaramaConfig(cfg))
	if err != nil {
		return nil, err
	}

	p := &FeedProducer{producer: producer, topic: cfg.Topic}
	p.wg.Add(1)
	go p.drainErrors()
	return p, nil
}

func (p *FeedProducer) drainErrors() {
	defer p.wg.Done()
	for perr := range p.producer.Errors() {
		log.Error("kafka publish failed", "topic", perr.Msg.Topic, "err", perr.Err)
	}
}

// Publish 序列化并投递事件，不等待 broker 确认
func (p *FeedProducer) Publish(ctx context.Context, event FeedEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.TraceID == "" {
		event.TraceID = logger.TraceID(ctx)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.ErrorContext(ctx, "marshal feed event failed", "type", event.Type, "err", err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(event.PostID, 10)),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	}

	select {
	case p.producer.Input() <- msg:
	case <-ctx.Done():
		log.WarnContext(ctx, "feed event dropped", "type", event.Type, "post_id", event.PostID)
	}
}

// Close 刷出缓冲的消息并关闭生产者
func (p *FeedProducer) Close() error {
	p.producer.AsyncClose()
	p.wg.Wait()
	return nil
}
