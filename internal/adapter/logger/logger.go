package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Logger interface {
	Info(action, message, requestID string, details map[string]interface{})
	Debug(action, message, requestID string, details map[string]interface{})
	Error(action, message, requestID string, details map[string]interface{}, err error)
}

type jsonLogger struct {
	handler *slog.Logger
}

func New(service string) Logger {
	return NewWithWriter(service, os.Stdout, "debug")
}

// NewWithWriter builds a JSON logger writing to w at the given level (debug, info, error).
func NewWithWriter(service string, w io.Writer, level string) Logger {
	hostname, _ := os.Hostname()

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				a.Key = "timestamp"
			}
			if len(groups) == 0 && a.Key == slog.MessageKey {
				a.Key = "message"
			}
			return a
		},
	})

	return &jsonLogger{
		handler: slog.New(handler).With(
			slog.String("service", service),
			slog.String("hostname", hostname),
		),
	}
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

func (l *jsonLogger) Info(action, message, requestID string, details map[string]interface{}) {
	l.log(slog.LevelInfo, action, message, requestID, details, nil)
}

func (l *jsonLogger) Debug(action, message, requestID string, details map[string]interface{}) {
	l.log(slog.LevelDebug, action, message, requestID, details, nil)
}

func (l *jsonLogger) Error(action, message, requestID string, details map[string]interface{}, err error) {
	l.log(slog.LevelError, action, message, requestID, details, err)
}

func (l *jsonLogger) log(level slog.Level, action, message, requestID string, details map[string]interface{}, err error) {
	attrs := []slog.Attr{
		slog.String("action", action),
		slog.String("request_id", requestID),
	}
	if len(details) > 0 {
		attrs = append(attrs, slog.Any("details", details))
	}
	if err != nil {
		attrs = append(attrs, slog.Group("error", slog.String("msg", err.Error())))
	}
	l.handler.LogAttrs(context.Background(), level, message, attrs...)
}
