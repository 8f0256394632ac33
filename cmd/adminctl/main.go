package main

import (
	"context"
	"os"

	"telegram-admin-backend/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(cli.ExitError)
	}
	os.Exit(cli.ExitSuccess)
}
