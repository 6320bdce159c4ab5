package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/api-sage/core-ledger/src/internal/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
)

const (
	publishTimeout      = 5 * time.Second
	breakerFailureLimit = 5
	breakerOpenTimeout  = 30 * time.Second
)

// Channel is the subset of *amqp.Channel the notifier needs.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPNotifier publishes entry events as JSON to a topic exchange with the
// routing key ledger.entry.<transaction type>.
type AMQPNotifier struct {
	channel  Channel
	conn     *amqp.Connection
	exchange string
	breaker  *gobreaker.CircuitBreaker
}

// DialAMQP connects to the broker and declares the exchange.
func DialAMQP(url, exchange string) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}

	notifier, err := NewAMQPNotifier(ch, exchange)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	notifier.conn = conn
	return notifier, nil
}

func NewAMQPNotifier(ch Channel, exchange string) (*AMQPNotifier, error) {
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "amqp-" + exchange,
		Timeout: breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureLimit
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("notify circuit breaker state changed", logger.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			})
		},
	})

	return &AMQPNotifier{
		channel:  ch,
		exchange: exchange,
		breaker:  breaker,
	}, nil
}

func (n *AMQPNotifier) Notify(ctx context.Context, event domain.EntryEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.EventID, err)
	}

	_, err = n.breaker.Execute(func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()

		return nil, n.channel.PublishWithContext(ctx, n.exchange, RoutingKey(event), false, false, amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.EventID,
			Timestamp:    event.OccurredAt,
			Body:         body,
		})
	})
	if err != nil {
		return fmt.Errorf("publish event %s: %w", event.EventID, err)
	}
	return nil
}

// State reports the breaker state, for health output.
func (n *AMQPNotifier) State() gobreaker.State {
	return n.breaker.State()
}

func (n *AMQPNotifier) Close() error {
	err := n.channel.Close()
	if n.conn != nil {
		if cerr := n.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func RoutingKey(event domain.EntryEvent) string {
	return "ledger.entry." + strings.ToLower(string(event.TransactionType))
}
