package main

import (
	"log/slog"
	"os"

	"github.com/signadot/docgraph/debug"
)

// stdout carries the protocol, so logs go to stderr.
var (
	theLog = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
)

func logLevel() slog.Level {
	if debug.LSP() {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
