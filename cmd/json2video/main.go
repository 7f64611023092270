package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errCannotProceed) {
			fmt.Fprintf(os.Stderr, "[-] %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
