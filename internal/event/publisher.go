package event

import (
	"encoding/json"
	"log"
	"time"

	"github.com/streadway/amqp"
)

// Routing keys for domain events published on the topic exchange.
const (
	QuizStarted        = "quiz.started"
	QuizAnswered       = "quiz.answered"
	QuizCompleted      = "quiz.completed"
	XPAwarded          = "gamification.xp_awarded"
	LevelUp            = "gamification.level_up"
	BadgeEarned        = "gamification.badge_earned"
	StreakMilestone    = "gamification.streak_milestone"
	MasteryAchieved    = "learning.mastery_achieved"
	DifficultyAdjusted = "learning.difficulty_adjusted"
)

type EventPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewEventPublisher(amqpURL, exchange string) (*EventPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
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
		return nil, err
	}
	return &EventPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish sends a domain event using the event type as the routing key.
// Failures are logged, not returned: events are advisory and must never
// break the request path.
func (p *EventPublisher) Publish(eventType string, payload interface{}) {
	event := map[string]interface{}{
		"type":      eventType,
		"payload":   payload,
		"timestamp": time.Now().UTC(),
	}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("[EVENT] marshal %s failed: %v", eventType, err)
		return
	}

	err = p.channel.Publish(
		p.exchange,
		eventType,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		log.Printf("[EVENT] publish %s failed: %v", eventType, err)
	}
}

func (p *EventPublisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
