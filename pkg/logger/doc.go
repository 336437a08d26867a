// Package logger builds configured log/slog loggers for the client kit.
//
// The factory supports text output for interactive development and JSON for
// log collection, static attributes shared by every record, and convenience
// presets for the two common setups.
//
//	log := logger.New(
//	    logger.WithDevelopment("qrconnect"),
//	    logger.WithAttr(slog.String("platform", runtime.GOOS)),
//	)
package logger
