// Command iconkit builds app icon assets: it flattens a foreground icon onto
// a solid background (composite) and adds transparent padding around an
// image for splash screens (pad).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}
