package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Freeeeeet/mentors_bot/internal/model"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Routing keys событий загрузки
const (
	RoutingKeyIngestionCompleted = "mentors.ingestion.completed"
	RoutingKeyIngestionPartial   = "mentors.ingestion.partial"
)

// IngestionEvent сообщение о завершённой загрузке таблицы
type IngestionEvent struct {
	RunID      string    `json:"run_id"`
	Source     string    `json:"source"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	RowsTotal  int       `json:"rows_total"`
	RowsOK     int       `json:"rows_ok"`
	RowsFailed int       `json:"rows_failed"`
	Mentors    int       `json:"mentors"`
}

// NewIngestionEvent событие и routing key по итогам загрузки
func NewIngestionEvent(report *model.IngestionReport) (IngestionEvent, string) {
	key := RoutingKeyIngestionCompleted
	if report.RowsFailed > 0 {
		key = RoutingKeyIngestionPartial
	}

	return IngestionEvent{
		RunID:      report.RunID.String(),
		Source:     report.Source,
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
		RowsTotal:  report.RowsTotal,
		RowsOK:     report.RowsOK,
		RowsFailed: report.RowsFailed,
		Mentors:    report.Mentors,
	}, key
}

// RabbitPublisher публикует события загрузки в topic exchange
type RabbitPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *zap.Logger
}

// NewRabbitPublisher подключается к брокеру и объявляет exchange
func NewRabbitPublisher(url, exchange string, logger *zap.Logger) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	if err := channel.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	logger.Info("RabbitMQ publisher ready", zap.String("exchange", exchange))

	return &RabbitPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// PublishIngestion отправляет событие о загрузке
func (p *RabbitPublisher) PublishIngestion(ctx context.Context, report *model.IngestionReport) error {
	event, key := NewIngestionEvent(report)

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal ingestion event: %w", err)
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.RunID,
		Timestamp:    event.FinishedAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish ingestion event: %w", err)
	}

	p.logger.Debug("Ingestion event published",
		zap.String("run_id", event.RunID),
		zap.String("routing_key", key))
	return nil
}

// Close закрывает канал и соединение
func (p *RabbitPublisher) Close() error {
	if p == nil || p.channel == nil {
		return nil
	}

	if err := p.channel.Close(); err != nil {
		return err
	}
	return p.conn.Close()
}
