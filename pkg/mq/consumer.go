package mq

import (
	"context"
	"errors"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrDeliveriesClosed = errors.New("DELIVERIES_CLOSED")

type Handle func(ctx context.Context, body []byte) error

type ConsumeOptions struct {
	Queue    string
	Prefetch int
	Workers  int
}

type Consumer interface {
	Consume(ctx context.Context, opts ConsumeOptions, handler Handle) error
}

type RabbitConsumer struct {
	ch *amqp.Channel
}

func NewRabbitConsumer(ch *amqp.Channel) Consumer {
	return &RabbitConsumer{ch: ch}
}

// Consume fans deliveries out to opts.Workers goroutines. Deliveries are acked on
// success, requeued on a Temporary error and dropped otherwise.
func (c *RabbitConsumer) Consume(ctx context.Context, opts ConsumeOptions, handler Handle) error {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Prefetch < opts.Workers {
		opts.Prefetch = opts.Workers
	}

	if err := c.ch.Qos(opts.Prefetch, 0, false); err != nil {
		return err
	}

	deliveries, err := c.ch.ConsumeWithContext(ctx, opts.Queue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	err = Serve(ctx, deliveries, opts.Workers, handler)
	_ = c.ch.Close()

	return err
}

// Serve runs handler on deliveries with the given number of workers until ctx
// is done or the broker closes the delivery channel. The latter returns
// ErrDeliveriesClosed so the caller can tell a lost channel from a shutdown.
func Serve(ctx context.Context, deliveries <-chan amqp.Delivery, workers int, handler Handle) error {
	if workers <= 0 {
		workers = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case d, ok := <-deliveries:
					if !ok {
						return
					}
					if err := handler(ctx, d.Body); err != nil {
						_ = d.Nack(false, IsTemporary(err))
						continue
					}
					_ = d.Ack(false)
				}
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	return ErrDeliveriesClosed
}
