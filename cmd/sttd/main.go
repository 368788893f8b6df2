// Command sttd is the Scribe process entrypoint: parses its flags,
// enforces single-instance, and runs the app until a shutdown signal
// arrives. Grounded on the teacher's main.go (flag parsing + "ready,
// use hotkeys" blocking loop), carrying forward the hidden
// --auto-started marker original_source's main.rs recognizes for its
// auto-start relaunch path.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"scribe/internal/app"
)

const mutexName = "Scribe-SingleInstance-Mutex"

var version = "dev"

func main() {
	var (
		showVersion bool
		autoStarted bool
		debug       bool
	)
	flag.BoolVar(&showVersion, "version", false, "print the version and exit")
	flag.BoolVar(&autoStarted, "auto-started", false, "internal: set when relaunched by the auto-start registration")
	flag.BoolVar(&debug, "debug", false, "print verbose hotkey/session diagnostics")
	flag.Usage = usage
	flag.Parse()

	if showVersion {
		fmt.Println("sttd", version)
		return
	}

	release, ok, err := acquireSingleInstance(mutexName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sttd: single-instance check failed: %v\n", err)
		os.Exit(1)
	}
	if !ok {
		fmt.Fprintln(os.Stderr, "sttd: already running")
		os.Exit(1)
	}
	defer release()

	if autoStarted {
		fmt.Println("sttd: launched via auto-start")
	}

	a, err := app.New(debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sttd: startup failed: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	fmt.Println("sttd: ready. Use the configured hotkey to start/stop recording.")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s [options]

Local push-to-toggle voice-to-text. Speak after the configured hotkey;
the transcript is inserted at the foreground caret.

Options:
  -version   print the version and exit
  -debug     print verbose hotkey/session diagnostics
`, os.Args[0])
}
