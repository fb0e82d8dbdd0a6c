package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/fabvote/fabvote-gateway/internal/config"
	"github.com/fabvote/fabvote-gateway/internal/domain"
	"github.com/fabvote/fabvote-gateway/internal/infra/fabric"
	"github.com/fabvote/fabvote-gateway/internal/infra/providers"
	"github.com/fabvote/fabvote-gateway/internal/present/rest"
	restmiddleware "github.com/fabvote/fabvote-gateway/internal/present/rest/middleware"
	"github.com/fabvote/fabvote-gateway/internal/service"
	"github.com/fabvote/fabvote-gateway/internal/usecase"
)

const serviceName = "fabvote-gateway"

func main() {
	err := run()
	if err != nil {
		fatal("fabvote gateway stopped", err)
	}
}

func run() error {
	configPath := os.Getenv("FABVOTE_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	conf, err := config.Load(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	if conf.Server.EnableTrace {
		cleanup, err := setupTraceProvider(conf.Server.TraceEndpoint)
		if err != nil {
			return errors.Wrap(err, "failed to setup trace provider")
		}
		defer cleanup()
	}

	ctx := context.Background()

	// identities
	ca, err := fabric.NewCertificateAuthority(
		conf.Fabric.ConnectionProfile,
		conf.Fabric.Org,
		conf.Fabric.CAHost,
		conf.Fabric.KeystorePath,
	)
	if err != nil {
		return errors.Wrap(err, "failed to create CA client")
	}

	wallet, err := fabric.NewFileSystemWallet(conf.Fabric.WalletPath)
	if err != nil {
		return errors.Wrap(err, "failed to open wallet")
	}

	identityUsecase := usecase.NewIdentityUsecase(ca, wallet)
	err = identityUsecase.Bootstrap(ctx, domain.BootstrapSpec{
		MSPID:       conf.Fabric.MSPID,
		AdminID:     conf.Fabric.AdminID,
		AdminSecret: conf.Fabric.AdminSecret,
		UserID:      conf.Fabric.UserID,
		Affiliation: conf.Fabric.Affiliation,
	})
	ca.Close()
	if err != nil {
		return errors.Wrap(err, "failed to bootstrap identities")
	}

	// network
	network, err := fabric.Connect(fabric.ConnectOptions{
		ConnectionProfile: conf.Fabric.ConnectionProfile,
		Wallet:            wallet,
		Identity:          conf.Fabric.UserID,
		Channel:           conf.Fabric.Channel,
		Chaincode:         conf.Fabric.Chaincode,
		Discovery:         conf.Fabric.Discovery,
		AsLocalhost:       conf.Fabric.AsLocalhost,
		CommitTimeout:     conf.Fabric.CommitTimeout,
	})
	if err != nil {
		return errors.Wrap(err, "failed to connect to network")
	}
	defer network.Close()

	// optional infrastructure
	infra, err := providers.NewInfra(ctx, conf.Server)
	if err != nil {
		return errors.Wrap(err, "failed to setup infrastructure")
	}
	defer infra.Close()

	ledgerUsecase := usecase.NewLedgerUsecase(network, infra.LedgerOptions...)
	electionUsecase := usecase.NewElectionUsecase(ledgerUsecase)
	sessionService := service.NewSessionService(conf.Session.Secret)

	var events rest.EventSource
	if infra.Signal != nil {
		events = infra.Signal
	}

	handler := rest.NewHandler(
		rest.Info{
			Channel:     network.Channel(),
			Contract:    network.Chaincode(),
			AllowOrigin: conf.Server.AllowOrigin,
		},
		electionUsecase,
		ledgerUsecase,
		sessionService,
		events,
	)

	e := echo.New()
	e.HideBanner = true
	e.Binder = rest.NewBinder()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{conf.Server.AllowOrigin},
		AllowCredentials: true,
	}))
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware(serviceName, otelecho.WithSkipper(func(c echo.Context) bool {
			return c.Path() == "/health"
		})))
	}
	e.Use(restmiddleware.NewSessionMiddleware(sessionService).IdentifyUser)

	handler.RegisterRoutes(e)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	return serve(e, conf.Server.Listen, quit)
}

// serve runs e until quit fires or the listener fails. Listener errors are
// returned so the caller's deferred closers still run.
func serve(e *echo.Echo, listen string, quit <-chan os.Signal) error {
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server listening", slog.String("listen", listen), slog.String("module", "main"))
		err := e.Start(listen)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-quit:
	case err := <-serverErr:
		return errors.Wrap(err, "server stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := e.Shutdown(shutdownCtx)
	if err != nil {
		slog.Error("failed to shutdown server", slog.String("error", err.Error()), slog.String("module", "main"))
	}
	return nil
}

func setupTraceProvider(endpoint string) (func(), error) {
	exporter, err := otlptracehttp.New(
		context.Background(),
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
	)

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(0.5))),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown tracer provider", slog.String("error", err.Error()), slog.String("module", "main"))
		}
	}
	return cleanup, nil
}

func fatal(msg string, err error) {
	slog.Error(msg, slog.String("error", err.Error()), slog.String("module", "main"))
	os.Exit(1)
}
