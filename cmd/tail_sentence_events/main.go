package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/botbridge-backend/internal/platform/logger"
	"github.com/yungbote/botbridge-backend/internal/realtime/bus"
)

// Tails the sentence event channel and prints each event as a JSON line.
// Useful for checking that trainers downstream actually receive rebuild
// triggers. Requires REDIS_ADDR.
func main() {
	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	b, err := bus.NewRedisBus(log)
	if err != nil {
		fmt.Printf("connect sentence bus: %v\n", err)
		os.Exit(1)
	}
	defer b.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	enc := json.NewEncoder(os.Stdout)
	err = b.StartForwarder(ctx, func(ev bus.SentenceEvent) {
		if err := enc.Encode(ev); err != nil {
			log.Warn("encode event", "error", err)
		}
	})
	if err != nil {
		fmt.Printf("subscribe: %v\n", err)
		os.Exit(1)
	}

	<-ctx.Done()
}
