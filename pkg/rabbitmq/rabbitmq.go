package rabbitmq

import (
	"github.com/juju/errors"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "campus-events"
	ExchangeKind = "topic"
)

// dial opens a connection and channel with the topic exchange declared.
func dial(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, errors.Annotate(err, "rabbitmq dial")
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, errors.Annotate(err, "rabbitmq channel")
	}

	if err := ch.ExchangeDeclare(ExchangeName, ExchangeKind, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, nil, errors.Annotate(err, "rabbitmq exchange declare")
	}
	return conn, ch, nil
}
