package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/you/authsvc/internal/app"
	"github.com/you/authsvc/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		printConfigErrors(err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg); err != nil {
		log.Fatalf("app: %v", err)
	}
}

func printConfigErrors(err error) {
	var fieldErrs config.FieldErrors
	if !errors.As(err, &fieldErrs) {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return
	}

	fmt.Fprintln(os.Stderr, "Invalid environment variables:")
	keys := make([]string, 0, len(fieldErrs))
	for k := range fieldErrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, msg := range fieldErrs[k] {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", k, msg)
		}
	}
}
