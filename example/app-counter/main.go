package main

import (
	"context"
	"fmt"
	"time"

	"github.com/lif0/go-safestop"
)

func main() {
	c := safestop.New(safestop.WithShutdownError(safestop.ErrShutdown))
	counter := newCounter(c)

	if err := c.OnDrained("counter", counter.Save); err != nil {
		panic(err)
	}
	safestop.SetStopTrigger(context.Background(), c, safestop.WithSysSignal())

	fmt.Printf("Last counter: %d\n", counter.val)
	fmt.Println("Press Ctrl+C to stop")

	go func() {
		for counter.Inc() {
			fmt.Printf("counter: %v\n", counter.val)
			time.Sleep(500 * time.Millisecond)
		}
	}()

	c.WaitShutdown()
	fmt.Println("App finish")
}
