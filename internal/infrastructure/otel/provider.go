package otel

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/bravo68web/gitapi/internal/config"
)

// ErrDisabled is returned by NewProvider when export is switched off
var ErrDisabled = errors.New("otel log export is not enabled")

// Config describes where gitapi ships its log records
type Config struct {
	Enabled bool

	// Endpoint is host:port of the collector, 4317 for gRPC and 4318 for HTTP
	Endpoint string
	Insecure bool
	UseHTTP  bool

	ServiceName    string
	ServiceVersion string
	Environment    string

	// ReposRoot is attached to the resource so records from several
	// instances can be told apart by the tree they serve
	ReposRoot string

	ExportTimeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Endpoint:       "localhost:4317",
		Insecure:       true,
		ServiceName:    "gitapi",
		ServiceVersion: "dev",
		Environment:    "debug",
		ExportTimeout:  5 * time.Second,
	}
}

// FromAppConfig maps the otel section of the application configuration.
// Export is enabled when otel.enabled is set or logging.output is otel.
func FromAppConfig(cfg *config.Config, serviceVersion string) *Config {
	out := DefaultConfig()
	out.Enabled = cfg.OTEL.Enabled || cfg.Logging.Output == "otel"
	if cfg.OTEL.Endpoint != "" {
		out.Endpoint = cfg.OTEL.Endpoint
	}
	out.Insecure = cfg.OTEL.Insecure
	out.UseHTTP = cfg.OTEL.UseHTTP
	if cfg.OTEL.ServiceName != "" {
		out.ServiceName = cfg.OTEL.ServiceName
	}
	if serviceVersion != "" {
		out.ServiceVersion = serviceVersion
	}
	if cfg.Server.Mode != "" {
		out.Environment = cfg.Server.Mode
	}
	out.ReposRoot = cfg.Git.ReposPath
	return out
}

// Provider owns the OTLP log pipeline
type Provider struct {
	logProvider *sdklog.LoggerProvider
	logger      log.Logger
}

// NewProvider builds the exporter and batch pipeline for cfg
func NewProvider(cfg *Config) (*Provider, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, ErrDisabled
	}

	ctx := context.Background()

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	var batchOpts []sdklog.BatchProcessorOption
	if cfg.ExportTimeout > 0 {
		batchOpts = append(batchOpts, sdklog.WithExportTimeout(cfg.ExportTimeout))
	}

	logProvider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter, batchOpts...)),
	)

	return &Provider{
		logProvider: logProvider,
		logger:      logProvider.Logger(cfg.ServiceName),
	}, nil
}

// newResource describes the service. The service attributes are schemaless so
// they combine with the SDK detector whatever semconv version it was built with.
func newResource(ctx context.Context, cfg *Config) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironment(cfg.Environment),
	}
	if cfg.ReposRoot != "" {
		attrs = append(attrs, attribute.String("gitapi.repos_root", cfg.ReposRoot))
	}

	return resource.New(ctx,
		resource.WithTelemetrySDK(),
		resource.WithAttributes(attrs...),
	)
}

func newExporter(ctx context.Context, cfg *Config) (sdklog.Exporter, error) {
	if cfg.UseHTTP {
		opts := []otlploghttp.Option{otlploghttp.WithEndpoint(cfg.Endpoint)}
		if cfg.Insecure {
			opts = append(opts, otlploghttp.WithInsecure())
		}
		return otlploghttp.New(ctx, opts...)
	}

	if !cfg.Insecure {
		return otlploggrpc.New(ctx, otlploggrpc.WithEndpoint(cfg.Endpoint))
	}

	conn, err := grpc.NewClient(cfg.Endpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}
	return otlploggrpc.New(ctx, otlploggrpc.WithGRPCConn(conn))
}

func (p *Provider) Logger() log.Logger {
	return p.logger
}

// Shutdown flushes pending records and stops the exporter
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.logProvider.Shutdown(ctx)
}

func (p *Provider) ForceFlush(ctx context.Context) error {
	return p.logProvider.ForceFlush(ctx)
}

// Close shuts the provider down with a five second budget
func (p *Provider) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.Shutdown(ctx)
}

var _ io.Closer = (*Provider)(nil)
