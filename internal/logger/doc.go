// Package logger wraps zap for the panel binaries.
//
// It keeps one global sugared logger, encoded for a terminal or as JSON
// lines, and carries scoped loggers in a context.Context so every service
// logs through FromContext(ctx).
package logger
