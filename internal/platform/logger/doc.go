// Package logger provides structured logging functionality for the application.
//
// It builds a JSON log/slog logger at the configured level and carries
// request-scoped loggers through context.Context so that every line written
// while serving a request is tagged with its trace ID.
package logger
