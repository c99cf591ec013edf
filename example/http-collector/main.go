package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/lif0/go-safestop"
	"github.com/rs/zerolog"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	c := safestop.New(
		safestop.WithShutdownError(safestop.ErrShutdown),
		safestop.WithLogger(log),
	)

	serverEvents := newBatcher(c, log, "server", "server_events.log")
	userEvents := newBatcher(c, log, "user", "user_events.log")

	srv := &http.Server{Addr: ":8080", Handler: newMux(c, serverEvents, userEvents)}

	mustOnDrained(c, "server-events", serverEvents.FinalFlush)
	mustOnDrained(c, "user-events", userEvents.FinalFlush)
	mustOnDrained(c, "http-server", srv.Shutdown)

	safestop.SetStopTrigger(context.Background(), c,
		safestop.WithSysSignal(),
		safestop.WithTimeout(30*time.Second),
	)

	go serverEvents.Run(time.Second)
	go userEvents.Run(time.Second)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	c.WaitShutdown()
	if errs := c.Err(); !errs.IsEmpty() {
		log.Error().Err(errs.MaybeUnwrap()).Msg("shutdown finished with errors")
	}
	log.Info().Msg("app is done...")
}

func mustOnDrained(c *safestop.Coordinator, name string, fn func(context.Context) error) {
	if err := c.OnDrained(name, fn); err != nil {
		panic(err)
	}
}

func newMux(c *safestop.Coordinator, serverEvents, userEvents *eventBatcher) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/user/event", collect(c, userEvents))
	mux.HandleFunc("/server/event", collect(c, serverEvents))
	return mux
}

// collect stores the request body inside a critical section, so a stop
// waits for the events of every accepted request to reach the store.
func collect(c *safestop.Coordinator, b *eventBatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := c.Critical(r.Context(), func(ctx context.Context) error {
			events, err := toStringArr(r)
			if err != nil {
				return err
			}
			b.Store(events)
			return nil
		})

		switch {
		case errors.Is(err, safestop.ErrShutdown):
			http.Error(w, "service is shutting down, try again later.", http.StatusServiceUnavailable)
		case err != nil:
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			w.Write([]byte("OK"))
		}
	}
}

func toStringArr(r *http.Request) ([]string, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	defer r.Body.Close()

	lines := bytes.Split(bytes.TrimSpace(body), []byte("\n"))

	result := make([]string, 0, len(lines))
	for _, line := range lines {
		if len(line) > 0 {
			result = append(result, string(line))
		}
	}

	return result, nil
}
