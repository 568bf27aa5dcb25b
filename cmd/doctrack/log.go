package main

import (
	"log/slog"
	"os"
)

// logLevel is lowered to debug by -v.
var logLevel = new(slog.LevelVar)

var theLog = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	Level:       logLevel,
	ReplaceAttr: dropTimeAndInfo,
}))

func dropTimeAndInfo(_ []string, a slog.Attr) slog.Attr {
	switch {
	case a.Key == slog.TimeKey:
		return slog.Attr{}
	case a.Key == slog.LevelKey && a.Value.String() == slog.LevelInfo.String():
		return slog.Attr{}
	}
	return a
}
