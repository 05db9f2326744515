package taskqueue

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/vmihailenco/msgpack/v5"
)

// Enqueuer accepts pending calls. Queue and AsyncQueue both implement it.
type Enqueuer[A any] interface {
	Enqueue(args A)
}

// ConnectNATS connects to url with the ping and timeout settings used by the
// bridge. Extra options are applied after the defaults.
func ConnectNATS(url string, opts ...nats.Option) (*nats.Conn, error) {
	defaults := []nats.Option{
		nats.Timeout(5 * time.Second),
		nats.PingInterval(time.Second),
		nats.MaxPingsOutstanding(3),
	}

	nc, err := nats.Connect(url, append(defaults, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	return nc, nil
}

// SubscribeNATS enqueues every message published on subject into q. Payloads
// are MessagePack-encoded call arguments, as written by PublishNATS. Messages
// that fail to decode are logged and dropped.
func SubscribeNATS[A any](nc *nats.Conn, subject string, q Enqueuer[A], opts ...Option) (*nats.Subscription, error) {
	if nc == nil {
		return nil, ErrNilConn
	}

	sub, err := nc.Subscribe(subject, natsHandler(q, newConfig(opts)))
	if err != nil {
		return nil, fmt.Errorf("subscribe to %q: %w", subject, err)
	}

	return sub, nil
}

// PublishNATS encodes args and publishes them on subject.
func PublishNATS[A any](nc *nats.Conn, subject string, args A) error {
	if nc == nil {
		return ErrNilConn
	}

	data, err := msgpack.Marshal(args)
	if err != nil {
		return fmt.Errorf("encode call: %w", err)
	}

	if err := nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish to %q: %w", subject, err)
	}

	return nil
}

func natsHandler[A any](q Enqueuer[A], cfg *config) nats.MsgHandler {
	return func(msg *nats.Msg) {
		var args A
		if err := msgpack.Unmarshal(msg.Data, &args); err != nil {
			cfg.logger.Warn("dropping undecodable message",
				"subject", msg.Subject,
				"error", err,
			)
			return
		}

		q.Enqueue(args)
	}
}
