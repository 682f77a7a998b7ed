package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/alimikegami/e-commerce/config"
	"github.com/alimikegami/e-commerce/internal/domain"
	circuitbreaker "github.com/alimikegami/e-commerce/internal/infrastructure/circuit-breaker"
	"github.com/alimikegami/e-commerce/internal/infrastructure/database/mongodb"
	"github.com/alimikegami/e-commerce/internal/infrastructure/message-queue/kafka"
	paymentgateway "github.com/alimikegami/e-commerce/internal/infrastructure/payment-gateway"
	"github.com/alimikegami/e-commerce/internal/infrastructure/scheduler"
	"github.com/alimikegami/e-commerce/internal/infrastructure/storage"
	"github.com/alimikegami/e-commerce/internal/infrastructure/tracing"
	localmiddleware "github.com/alimikegami/e-commerce/internal/middleware"
	"github.com/alimikegami/e-commerce/internal/repository"
	"github.com/alimikegami/e-commerce/internal/service"
	"github.com/alimikegami/e-commerce/pkg/response"
	"github.com/alimikegami/e-commerce/pkg/utils"
	"github.com/alimikegami/e-commerce/pkg/validation"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "e-commerce"

type App struct {
	DB     *mongo.Database
	Config *config.Config
	Server *echo.Echo

	httpServer *http.Server
	metrics    *echo.Echo
	closers    []func(ctx context.Context) error
}

// Init wires every component and builds both servers without serving. Background work
// (the event consumer and the scheduler) starts here and runs until ctx is cancelled.
// Init must return before Start or StopServer are called.
func (app *App) Init(ctx context.Context) error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", serviceName).Logger()
	level, err := zerolog.ParseLevel(app.Config.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = logger

	traceProvider, err := tracing.InitTracing(ctx, serviceName, app.Config.TracingConfig.CollectorHost)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize tracing")
	} else {
		app.closers = append(app.closers, traceProvider.Shutdown)
	}

	if err := mongodb.EnsureIndexes(ctx, app.DB); err != nil {
		return fmt.Errorf("ensuring indexes: %w", err)
	}

	store, err := app.createImageStore(ctx)
	if err != nil {
		return fmt.Errorf("creating image store: %w", err)
	}

	categoryRepo := repository.CreateNewCategoryRepository(app.DB)
	subCategoryRepo := repository.CreateNewSubCategoryRepository(app.DB)
	brandRepo := repository.CreateNewMongoDBRepository[domain.Brand](app.DB, repository.CollectionBrands)
	productRepo := repository.CreateNewProductRepository(app.DB)
	couponRepo := repository.CreateNewCouponRepository(app.DB)
	reviewRepo := repository.CreateNewReviewRepository(app.DB)
	userRepo := repository.CreateNewUserRepository(app.DB)
	cartRepo := repository.CreateNewCartRepository(app.DB)
	orderRepo := repository.CreateNewOrderRepository(app.DB)
	trx := repository.CreateNewTransactionManager(app.DB, app.Config.MongoDBConfig.UseTransactions)

	smtp := app.Config.SMTPConfig
	mailer := utils.CreateMailer(smtp.Host, smtp.Port, smtp.Username, smtp.Password, smtp.From)
	publisher := app.createPublisher()
	jwtConf := app.Config.JWTConfig

	productSvc := service.CreateProductService(productRepo, categoryRepo, subCategoryRepo, reviewRepo, userRepo, store)
	userSvc := service.CreateUserService(userRepo, productRepo, productSvc, store, jwtConf.JWTSecret, jwtConf.ExpiresIn)
	orderSvc := service.CreateOrderService(orderRepo, cartRepo, productRepo, userRepo, trx, app.createGateway(), publisher, mailer, app.Config.BaseURL)

	svcs := services{
		store:         store,
		categories:    service.CreateCategoryService(categoryRepo, store),
		subCategories: service.CreateSubCategoryService(subCategoryRepo),
		brands:        service.CreateBrandService(brandRepo, store),
		products:      productSvc,
		coupons:       service.CreateCouponService(couponRepo),
		reviews:       service.CreateReviewService(reviewRepo, productRepo, userRepo),
		users:         userSvc,
		auth:          service.CreateAuthService(userRepo, userSvc, mailer, jwtConf.JWTSecret, jwtConf.ExpiresIn),
		carts:         service.CreateCartService(cartRepo, productRepo, couponRepo),
		orders:        orderSvc,
	}

	if addr := app.Config.KafkaConfig.BrokerAddress; addr != "" {
		reader := kafka.CreateKafkaReader(addr, app.Config.KafkaConfig.BrokerTopic, app.Config.KafkaConfig.GroupID)
		app.closers = append(app.closers, func(context.Context) error { return reader.Close() })
		go kafka.ConsumeEvents(ctx, reader, map[string]kafka.Handler{
			kafka.EventOrderCreated: orderSvc.HandleOrderCreated,
		})
	}

	s, err := scheduler.Start(ctx, scheduler.Job{
		Name:     "clear-expired-reset-codes",
		Interval: 10 * time.Minute,
		Task:     userSvc.ClearExpiredResetCodes,
	})
	if err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	app.closers = append(app.closers, func(context.Context) error { return s.Shutdown() })

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.NewValidator()
	e.HTTPErrorHandler = response.HTTPErrorHandler

	e.Use(middleware.Recover())
	e.Use(localmiddleware.Logger)
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// otelhttp starts the span before routing, name it after the matched route
			trace.SpanFromContext(c.Request().Context()).SetName(fmt.Sprintf("[%s] %s", c.Request().Method, c.Path()))
			return next(c)
		}
	})

	// Used empty string so that metrics are not prefixed with the service name making it easier to aggregate across services
	e.Use(echoprometheus.NewMiddleware(""))
	e.Use(middleware.CORS())
	e.Use(middleware.Secure())
	e.Use(middleware.Gzip())
	e.Use(middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{
		Limit: "20K",
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) ||
				c.Request().URL.Path == "/webhook-checkout"
		},
	}))

	if app.Config.StorageConfig.Driver != "s3" {
		e.Static("/", app.Config.StorageConfig.UploadDir)
	}

	registerRoutes(e, svcs, app.Config.RateLimitConfig)
	app.prepareServers(e)

	return nil
}

// prepareServers builds the API and metrics servers so StopServer can shut them down
// even if Start has not begun serving yet.
func (app *App) prepareServers(e *echo.Echo) {
	app.Server = e

	app.metrics = echo.New()
	app.metrics.HideBanner = true
	app.metrics.HidePort = true
	app.metrics.GET("/metrics", echoprometheus.NewHandler())

	app.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%s", app.Config.ServicePort),
		Handler:           otelhttp.NewHandler(e, serviceName),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Start serves until StopServer is called. A server stopped before Start returns nil.
func (app *App) Start() error {
	go func() {
		if err := app.metrics.Start(fmt.Sprintf(":%s", app.Config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start metrics server")
		}
	}()

	log.Info().Str("port", app.Config.ServicePort).Str("environment", app.Config.Environment).Msg("Starting server")
	if err := app.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (app *App) StopServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errList []error
	if app.httpServer != nil {
		errList = append(errList, app.httpServer.Shutdown(ctx))
	}
	if app.metrics != nil {
		errList = append(errList, app.metrics.Shutdown(ctx))
	}
	for i := len(app.closers) - 1; i >= 0; i-- {
		errList = append(errList, app.closers[i](ctx))
	}
	if app.DB != nil {
		errList = append(errList, app.DB.Client().Disconnect(ctx))
	}

	return errors.Join(errList...)
}

func (app *App) createImageStore(ctx context.Context) (storage.ImageStore, error) {
	conf := app.Config.StorageConfig
	if conf.Driver == "s3" {
		return storage.CreateS3ImageStore(ctx, conf.Bucket, conf.Region, conf.Endpoint, conf.AccessKeyID, conf.SecretAccessKey, conf.PublicURL)
	}

	return storage.CreateLocalImageStore(conf.UploadDir, app.Config.BaseURL), nil
}

func (app *App) createGateway() paymentgateway.Gateway {
	conf := app.Config.PaymentConfig

	var gateway paymentgateway.Gateway
	switch conf.Provider {
	case "midtrans":
		gateway = paymentgateway.CreateMidtransGateway(conf.MidtransServerKey, conf.MidtransEnvironment)
	default:
		gateway = paymentgateway.CreateStripeGateway(conf.StripeSecretKey, conf.StripeWebhookSecret, conf.Currency)
	}

	cb := circuitbreaker.CreateCircuitBreaker[paymentgateway.CheckoutSession]("payment-gateway")
	return paymentgateway.WithCircuitBreaker(gateway, cb)
}

// createPublisher falls back to dropping events when no broker is configured.
func (app *App) createPublisher() kafka.EventPublisher {
	conf := app.Config.KafkaConfig
	if conf.BrokerAddress == "" {
		log.Warn().Str("component", "createPublisher").Msg("BROKER_ADDRESS is not set, order events are not published")
		return kafka.NoopPublisher{}
	}

	producer := kafka.CreateKafkaProducer(conf.BrokerAddress, conf.BrokerTopic)
	app.closers = append(app.closers, func(context.Context) error { return producer.Close() })
	return producer
}
