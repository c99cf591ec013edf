package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/lif0/go-safestop"
)

const filename = "counter.txt"

type counter struct {
	val int
	c   *safestop.Coordinator
}

func newCounter(c *safestop.Coordinator) *counter {
	return &counter{
		val: tryReadFile(),
		c:   c,
	}
}

// Inc increments the counter and persists every tenth value.
// It returns false once the coordinator is stopped.
func (c *counter) Inc() bool {
	err := c.c.Critical(context.Background(), func(context.Context) error {
		c.val++
		if c.val%10 == 0 {
			return c.flush()
		}
		return nil
	})

	return err == nil || !c.c.IsStopped()
}

func (c *counter) flush() error {
	if err := os.WriteFile(filename, []byte(strconv.Itoa(c.val)), 0o644); err != nil {
		return fmt.Errorf("error saving counter: %w", err)
	}

	return nil
}

// Save is the drain hook: no Inc is running anymore.
func (c *counter) Save(ctx context.Context) error {
	return c.flush()
}

func tryReadFile() int {
	data, err := os.ReadFile(filename)
	if err != nil {
		return 0
	}

	counter, err := strconv.Atoi(string(data))
	if err != nil {
		return 0
	}

	return counter
}
