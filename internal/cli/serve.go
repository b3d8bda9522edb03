package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Eursukkul/booking-microservice/checkin-service/config"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/consumer"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/handler"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/middleware"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/scanner"
	"github.com/Eursukkul/booking-microservice/checkin-service/internal/service"
	"github.com/Eursukkul/booking-microservice/checkin-service/pkg/rabbitmq"
	"github.com/juju/errors"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API. When RABBITMQ_URL is set, domain notifications are
published and maintenance.reconcile requests are consumed. When
RECONCILE_INTERVAL is positive, attendee counts are swept periodically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, rootOpts.Config)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	db, err := openDB(cfg)
	if err != nil {
		return err
	}

	var publisher service.Publisher
	var mq *rabbitmq.Publisher
	if cfg.RabbitURL != "" {
		if mq, err = rabbitmq.NewPublisher(cfg.RabbitURL); err != nil {
			return errors.Annotate(err, "connect publisher")
		}
		defer mq.Close()
		publisher = mq
	} else {
		logger.Warningf("RABBITMQ_URL not set, messaging disabled")
	}

	a, err := newApp(cfg, db, publisher)
	if err != nil {
		return err
	}
	defer a.close()

	if cfg.RabbitURL != "" {
		c, err := rabbitmq.NewConsumer(cfg.RabbitURL)
		if err != nil {
			return errors.Annotate(err, "connect consumer")
		}
		defer c.Close()
		msgs, err := c.Consume()
		if err != nil {
			return errors.Trace(err)
		}
		consumer.NewReconcileConsumer(a.reconciler).Start(msgs)
	}

	if cfg.ReconcileInterval > 0 {
		go a.reconciler.Run(ctx, cfg.ReconcileInterval)
	}

	e := newServer(a)

	errc := make(chan error, 1)
	go func() {
		logger.Infof("check-in service starting on :%s", cfg.ServerPort)
		errc <- e.Start(":" + cfg.ServerPort)
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return errors.Annotate(err, "http server")
		}
		return nil
	case <-ctx.Done():
	}

	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return errors.Trace(e.Shutdown(shutdownCtx))
}

func newServer(a *app) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Validator = middleware.NewValidator()
	e.Use(middleware.RequestLogger())
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "checkin-service"})
	})

	api := e.Group("/api/v1", middleware.Session(a.users))
	handler.NewUserHandler(a.users).RegisterRoutes(api)
	handler.NewEventHandler(a.events).RegisterRoutes(api)
	handler.NewRegistrationHandler(a.registrations).RegisterRoutes(api)
	handler.NewTicketHandler(a.tickets, scanner.NewPool(a.tickets.CheckIn)).RegisterRoutes(api)
	handler.NewAdminHandler(a.admin).RegisterRoutes(api)

	return e
}
