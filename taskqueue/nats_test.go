package taskqueue

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/nats-io/nats.go"
	"github.com/vmihailenco/msgpack/v5"
)

func TestNATSHandlerEnqueues(t *testing.T) {
	q := New(func(call) error { return nil })
	handle := natsHandler[call](q, newConfig(nil))

	for _, c := range []call{{1, "a"}, {2, "b"}} {
		data, err := msgpack.Marshal(c)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		handle(&nats.Msg{Subject: "jobs", Data: data})
	}

	// Undecodable payloads are dropped.
	handle(&nats.Msg{Subject: "jobs", Data: []byte{0xc1}})

	if diff := cmp.Diff([]call{{1, "a"}, {2, "b"}}, q.items()); diff != "" {
		t.Errorf("enqueued calls mismatch (-want +got):\n%s", diff)
	}
}

func TestNATSHelpersRejectNilConn(t *testing.T) {
	q := New(func(int) error { return nil })

	if _, err := SubscribeNATS[int](nil, "jobs", q); !errors.Is(err, ErrNilConn) {
		t.Errorf("SubscribeNATS() error = %v, want ErrNilConn", err)
	}
	if err := PublishNATS(nil, "jobs", 1); !errors.Is(err, ErrNilConn) {
		t.Errorf("PublishNATS() error = %v, want ErrNilConn", err)
	}
}
