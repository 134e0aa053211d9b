package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/dmitrijs2005/attendance/internal/client/cli"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := cli.NewApp(os.Stdin, os.Stdout)
	code := app.Run(ctx, os.Args[1:])

	stop()
	os.Exit(code)

}
