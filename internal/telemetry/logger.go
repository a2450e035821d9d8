package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hiroki-koketsu/taskcore/internal/config"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// InitLoggerProvider initializes the OpenTelemetry logger provider.
// For the "otlp" exporter it configures an OTLP gRPC exporter and returns a
// slog.Logger that bridges to OpenTelemetry for log-trace correlation. Other
// exporters get a JSON logger and a nil provider.
func InitLoggerProvider(ctx context.Context, s Settings) (*sdklog.LoggerProvider, *slog.Logger, error) {
	switch s.Exporter {
	case config.ExporterStdout:
		return nil, NewJSONLogger(os.Stdout, s.ServiceName), nil
	case config.ExporterOTLP:
	default:
		return nil, NewJSONLogger(os.Stderr, s.ServiceName), nil
	}

	conn, err := newConn(s.OTLPEndpoint)
	if err != nil {
		return nil, nil, err
	}

	exporter, err := otlploggrpc.New(ctx, otlploggrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create log exporter: %w", err)
	}

	res, err := newResource(s)
	if err != nil {
		return nil, nil, err
	}

	// Create logger provider with batch processor
	lp := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
		sdklog.WithResource(res),
	)

	global.SetLoggerProvider(lp)

	logger := otelslog.NewLogger(s.ServiceName, otelslog.WithLoggerProvider(lp))

	return lp, logger, nil
}

// NewJSONLogger returns a JSON slog logger tagged with the service name.
func NewJSONLogger(w io.Writer, serviceName string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, nil)).With(slog.String("service", serviceName))
}
