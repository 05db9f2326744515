package taskqueue_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/Davincible/d-flow/taskqueue"
)

func Example() {
	q := taskqueue.New(func(x int) error {
		fmt.Println("run", x)
		return nil
	})

	q.Enqueue(1)
	q.Enqueue(2)
	q.Enqueue(3)

	if err := q.ExecuteAll(); err != nil {
		panic(err)
	}
	fmt.Println("pending:", q.Len())

	// Output:
	// run 1
	// run 2
	// run 3
	// pending: 0
}

func ExampleAsyncQueue_ExecuteAll() {
	q := taskqueue.NewAsync(func(ctx context.Context, name string) error {
		if name == "bad" {
			return errors.New("rejected")
		}
		fmt.Println("sent", name)
		return nil
	}, taskqueue.WithIgnoreErrors())

	q.OnError(func(name string, err error) {
		fmt.Printf("skipped %s: %v\n", name, err)
	})

	for _, name := range []string{"first", "bad", "last"} {
		q.Enqueue(name)
	}

	q.ExecuteAll(context.Background())

	// Output:
	// sent first
	// skipped bad: rejected
	// sent last
}
