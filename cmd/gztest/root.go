// cmd/gztest/root.go
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// Exit codes:
//
// * exitSuccess (0): every channel passed
// * exitChannelFailure (1): at least one channel answered nack
// * exitRuntimeErr (2): timeout, bad config or link failure
// * exitCancelled (3): interrupted by the operator
const (
	exitSuccess        = 0
	exitChannelFailure = 1
	exitRuntimeErr     = 2
	exitCancelled      = 3
)

// exitError carries a process exit code through cobra.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "gztest",
		Short: "Acceptance test sequencer for the gz communication board",
		Long: `gztest drives the debug UART, Ethernet, RS-485, CAN and PMBus channels
of a gz board through the request/ack exchange on its control link and
reports a pass/fail verdict.`,
		Version: version,
		// SilenceUsage prevents printing usage on errors handled by us
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate(`{{printf "gztest version %s\n" .Version}}`)

	root.AddCommand(newRunCmd())
	root.AddCommand(newCheckConfigCmd())
	root.AddCommand(newVersionCmd())

	return root
}

func execute(args []string) int {
	root := newRootCmd(os.Stdout, os.Stderr)
	root.SetArgs(args)

	err := root.Execute()
	if err == nil {
		return exitSuccess
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.msg != "" {
			fmt.Fprintln(os.Stderr, ee.msg)
		}
		return ee.code
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	return exitRuntimeErr
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of gztest",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gztest version %s\n", version)
		},
	}
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "", "info":
		lvl = slog.LevelInfo
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
