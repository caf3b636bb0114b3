// Command shopctl is the storefront terminal client.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/99minutos/storefront/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		if !cli.IsReported(err) {
			os.Stderr.WriteString("Error: " + err.Error() + "\n")
		}
		stop()
		os.Exit(1)
	}
}
