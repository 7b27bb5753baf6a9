// Package observability builds the structured logger shared by the rbset commands.
package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

const (
	attrService = "service"
	attrMode    = "mode"
)

// ServiceHandler is an [slog.Handler] that stamps service metadata on every record.
// The attributes are pre-attached at construction so they remain at the top level
// even when groups are used.
type ServiceHandler struct {
	inner slog.Handler
}

// NewServiceHandler wraps an [slog.Handler], adding the service and mode attributes.
func NewServiceHandler(inner slog.Handler, service string, appMode AppMode) *ServiceHandler {
	return &ServiceHandler{
		inner: inner.WithAttrs([]slog.Attr{
			slog.String(attrService, service),
			slog.String(attrMode, string(appMode)),
		}),
	}
}

// Enabled delegates to the inner handler.
func (sh *ServiceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return sh.inner.Enabled(ctx, level)
}

// Handle delegates to the inner handler.
func (sh *ServiceHandler) Handle(ctx context.Context, record slog.Record) error {
	err := sh.inner.Handle(ctx, record)
	if err != nil {
		return fmt.Errorf("service handler: %w", err)
	}

	return nil
}

// WithAttrs returns a new ServiceHandler with additional attributes on the inner handler.
func (sh *ServiceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ServiceHandler{inner: sh.inner.WithAttrs(attrs)}
}

// WithGroup returns a new ServiceHandler with a group prefix on the inner handler.
func (sh *ServiceHandler) WithGroup(name string) slog.Handler {
	return &ServiceHandler{inner: sh.inner.WithGroup(name)}
}

// NewLogger builds the logger writing to out.
func NewLogger(cfg Config, out io.Writer) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var inner slog.Handler
	if cfg.LogJSON {
		inner = slog.NewJSONHandler(out, handlerOpts)
	} else {
		inner = slog.NewTextHandler(out, handlerOpts)
	}

	return slog.New(NewServiceHandler(inner, cfg.ServiceName, cfg.Mode))
}
