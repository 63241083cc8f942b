package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	raccooncmd "github.com/rzbill/raccoon/internal/cmd/raccoon"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := raccooncmd.NewRoot(raccooncmd.Options{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "raccoon:", err)
		os.Exit(1)
	}
}
