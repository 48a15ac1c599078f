// Command go-jubileum is the desktop jubilee calculator. It lives in the
// system tray, serves the computed jubilees as a calendar feed on localhost
// and imports participants from vCard address books.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/tartampluch/go-jubileum/internal/config"
	"github.com/tartampluch/go-jubileum/internal/engine"
	"github.com/tartampluch/go-jubileum/internal/logging"
	"github.com/tartampluch/go-jubileum/internal/server"
	"github.com/tartampluch/go-jubileum/internal/ui"
)

func main() {
	os.Exit(start(os.Args[1:], os.Stdout, os.Stderr))
}

// start returns the process exit code; deferred cleanup runs before os.Exit.
func start(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	version := fs.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debug := fs.Bool(config.FlagDebug, false, config.FlagDescDebug)
	if err := fs.Parse(args); err != nil {
		return config.ExitCodeError
	}

	if *version {
		_, _ = fmt.Fprint(stdout, logging.VersionString(config.AppName))
		return config.ExitCodeSuccess
	}

	closer := logging.Setup(logging.Options{Console: stdout, Debug: *debug, LogFile: true})
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	logging.LogStartup(config.CompMain)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	desktop(ctx)

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// desktop wires the feed server and fetcher into the tray app and blocks
// until the user quits or ctx is cancelled.
func desktop(ctx context.Context) {
	a := app.NewWithID(config.AppID)
	prefs := a.Preferences()
	prefs.SetString(config.PrefLastRun, config.Version)

	gui := ui.NewGoJubileumApp(a, ctx,
		server.NewFeedServer(prefs.StringWithFallback(config.PrefServerPort, config.DefaultPort)),
		engine.NewHTTPFetcher(),
	)

	go func() {
		<-ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
		fyne.Do(a.Quit)
	}()

	gui.Run()
}
