// Command archgraph draws architecture diagrams from the infrastructure code
// in a project directory.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/matzehuels/archgraph/internal/cli"
)

func main() {
	// ARCHGRAPH_* settings may come from a .env in the working directory.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.New(os.Stderr, cli.LogInfo).Execute(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}
