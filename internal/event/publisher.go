package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/aliskhannn/quiz-master/internal/domain/entities"
)

// AttemptRecorded is the routing key of attempt events.
const AttemptRecorded = "quiz.attempt.recorded"

type channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Event is the envelope of every published message.
type Event struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// AttemptPayload describes a recorded attempt.
type AttemptPayload struct {
	AttemptID      int64     `json:"attempt_id"`
	SessionID      string    `json:"session_id"`
	UserID         int64     `json:"user_id"`
	Username       string    `json:"username"`
	SubjectID      int64     `json:"subject_id"`
	SubjectName    string    `json:"subject_name"`
	Chapters       []string  `json:"chapters"`
	TotalQuestions int       `json:"total_questions"`
	CorrectAnswers int       `json:"correct_answers"`
	Accuracy       float64   `json:"accuracy"`
	TakenAt        time.Time `json:"taken_at"`
}

// Publisher sends domain events to a topic exchange.
type Publisher struct {
	conn     *amqp.Connection
	channel  channel
	exchange string
	logger   *zap.Logger
	now      func() time.Time
}

// NewPublisher connects to the broker and declares a durable topic exchange.
func NewPublisher(amqpURL, exchange string, logger *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	p := newPublisher(ch, exchange, logger)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange string, logger *zap.Logger) *Publisher {
	return &Publisher{channel: ch, exchange: exchange, logger: logger, now: time.Now}
}

// Publish sends payload with the event type as routing key.
func (p *Publisher) Publish(eventType string, payload any) error {
	body, err := json.Marshal(Event{Type: eventType, OccurredAt: p.now().UTC(), Payload: payload})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.channel.Publish(
		p.exchange,
		eventType,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    p.now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}

	p.logger.Debug("event published", zap.String("type", eventType))
	return nil
}

// AttemptRecorded publishes a quiz.attempt.recorded event.
func (p *Publisher) AttemptRecorded(_ context.Context, s *entities.AttemptSummary) error {
	return p.Publish(AttemptRecorded, AttemptPayload{
		AttemptID:      s.ID,
		SessionID:      s.SessionID.String(),
		UserID:         s.UserID,
		Username:       s.Username,
		SubjectID:      s.SubjectID,
		SubjectName:    s.SubjectName,
		Chapters:       s.ChapterNames,
		TotalQuestions: s.TotalQuestions,
		CorrectAnswers: s.CorrectAnswers,
		Accuracy:       s.Accuracy,
		TakenAt:        s.TakenAt,
	})
}

func (p *Publisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
