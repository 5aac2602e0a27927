package controller

import (
	"context"
	"net/http"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/dal"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/middelware"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/repository"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/services"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/logger"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/metrics"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/swaggo/swag"
)

type Controller struct {
	Asset     *AssetController
	Booking   *BookingController
	Schedule  *ScheduleController
	WorkOrder *WorkOrderController
	Record    *RecordController
	StockTake *StockTakeController
	SavedView *SavedViewController
	Report    *ReportController
	User      *UserController
	Worker    *WorkerController

	// Services and Metrics are exposed so main can hand the sweep service
	// to the cron worker and the collectors to the logging middleware.
	Services services.ServiceContainerInterface
	Metrics  *metrics.Metrics

	jwtManager *middelware.JWTManager
}

func NewController(ctx context.Context, cfg *models.Config, log logger.Logger) *Controller {
	dbclient, err := dal.NewDynamoDBClient(cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize DynamoDB client: %v", err)
	}

	repos := repository.NewRepository(dbclient, cfg, log)
	m := metrics.NewMetrics(cfg.MetricsNamespace, prometheus.DefaultRegisterer)
	svc := services.NewService(repos, m, log, cfg)
	jwtManager := middelware.NewJWTManager(cfg, log, repos.GetUserRepository())

	return &Controller{
		Asset:      NewAssetController(ctx, svc.GetAssetService(), log),
		Booking:    NewBookingController(ctx, svc.GetBookingService(), log),
		Schedule:   NewScheduleController(ctx, svc.GetScheduleService(), log),
		WorkOrder:  NewWorkOrderController(ctx, svc.GetWorkOrderService(), log),
		Record:     NewRecordController(ctx, svc.GetRecordService(), log),
		StockTake:  NewStockTakeController(ctx, svc.GetStockTakeService(), log),
		SavedView:  NewSavedViewController(ctx, svc.GetSavedViewService(), log),
		Report:     NewReportController(ctx, svc.GetReportService(), log),
		User:       NewUserController(ctx, svc.GetUserService(), jwtManager, log),
		Worker:     NewWorkerController(ctx, svc.GetSweepService(), log),
		Services:   svc,
		Metrics:    m,
		jwtManager: jwtManager,
	}
}

func (c *Controller) RegisterRoutes(ctx context.Context, config *models.Config, r *gin.Engine, basePath string) error {
	log := logger.NewLogger(config.LogLevel, config.LogFormat)

	logging := middelware.NewLoggingMiddleware(log, c.Metrics)
	cors := middelware.NewCORSMiddleware(config)
	r.Use(logging.Recovery())
	r.Use(logging.StructuredLogger())
	r.Use(cors.CORS())

	v1 := r.Group(basePath)

	// Health check endpoint (no auth required)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"version": config.AppVersion,
			"service": config.AppName,
		})
	})

	// Prometheus metrics endpoint (no auth required)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Swagger UI with sign-in panel
	swaggerConfig := swagger.SwaggerConfig{
		Title:         "Inventory Extension API",
		SwaggerDocURL: "/swagger/doc.json",
		AuthURL:       basePath + "/auth/login",
	}
	r.GET("/swagger", swagger.ServeSwaggerUI(swaggerConfig))
	r.GET("/swagger/", swagger.ServeSwaggerUI(swaggerConfig))
	r.GET("/swagger/index.html", swagger.ServeSwaggerUI(swaggerConfig))

	// Swagger JSON spec, rendered from the generated docs package
	r.GET("/swagger/doc.json", func(c *gin.Context) {
		doc, err := swag.ReadDoc()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "API specification not available"})
			return
		}
		c.Data(http.StatusOK, "application/json", []byte(doc))
	})

	// Authentication routes (register, login and validate are public)
	auth := v1.Group("/auth")
	auth.POST("/register", c.User.Register)
	auth.POST("/login", c.User.Login)
	auth.POST("/validate", c.User.ValidateToken)
	auth.POST("/logout", c.jwtManager.AuthMiddleware(), c.User.Logout)
	auth.GET("/me", c.jwtManager.AuthMiddleware(), c.User.GetProfile)

	// Everything below requires a valid token
	api := v1.Group("")
	api.Use(c.jwtManager.AuthMiddleware())

	manager := c.jwtManager.RequireRole("manager")
	admin := c.jwtManager.RequireRole("admin")

	// User management (admin only)
	users := api.Group("/users")
	users.Use(admin)
	users.GET("", c.User.GetUsers)
	users.GET("/:id", c.User.GetUserByID)
	users.PATCH("/:id", c.User.UpdateUser)

	// Assets
	assets := api.Group("/assets")
	assets.POST("", manager, c.Asset.CreateAsset)
	assets.GET("", c.Asset.GetAssets)
	assets.GET("/scan", c.Asset.ScanAsset)
	assets.GET("/:id", c.Asset.GetAssetByKey)
	assets.PUT("/:id", manager, c.Asset.UpdateAsset)
	assets.POST("/:id/retire", manager, c.Asset.RetireAsset)
	assets.DELETE("/:id", manager, c.Asset.DeleteAsset)

	// Asset groups
	groups := api.Group("/asset-groups")
	groups.POST("", manager, c.Asset.CreateGroup)
	groups.GET("", c.Asset.GetGroups)
	groups.GET("/:id", c.Asset.GetGroupByID)
	groups.PUT("/:id", manager, c.Asset.UpdateGroup)
	groups.DELETE("/:id", manager, c.Asset.DeleteGroup)

	// Bookings (any authenticated user)
	bookings := api.Group("/bookings")
	bookings.POST("", c.Booking.CreateBooking)
	bookings.GET("", c.Booking.GetBookings)
	bookings.GET("/:id", c.Booking.GetBookingByID)
	bookings.PUT("/:id", c.Booking.UpdateBooking)
	bookings.POST("/:id/checkout", c.Booking.CheckOut)
	bookings.POST("/:id/checkin", c.Booking.CheckIn)
	bookings.POST("/:id/cancel", c.Booking.CancelBooking)

	// Maintenance schedules
	schedules := api.Group("/schedules")
	schedules.POST("", manager, c.Schedule.CreateSchedule)
	schedules.GET("", c.Schedule.GetSchedules)
	schedules.GET("/due", c.Schedule.GetDueSchedules)
	schedules.GET("/:id", c.Schedule.GetScheduleByID)
	schedules.PUT("/:id", manager, c.Schedule.UpdateSchedule)
	schedules.DELETE("/:id", manager, c.Schedule.DeleteSchedule)

	// Work orders; execution endpoints stay open to technicians, so only
	// the administrative mutations carry the manager guard
	workOrders := api.Group("/work-orders")
	workOrders.POST("", manager, c.WorkOrder.CreateWorkOrder)
	workOrders.GET("", c.WorkOrder.GetWorkOrders)
	workOrders.GET("/:id", c.WorkOrder.GetWorkOrderByKey)
	workOrders.PUT("/:id", manager, c.WorkOrder.UpdateWorkOrder)
	workOrders.POST("/:id/plan", manager, c.WorkOrder.PlanWorkOrder)
	workOrders.POST("/:id/start", c.WorkOrder.StartWorkOrder)
	workOrders.POST("/:id/complete", c.WorkOrder.CompleteWorkOrder)
	workOrders.POST("/:id/abort", manager, c.WorkOrder.AbortWorkOrder)
	workOrders.PUT("/:id/items/:index", c.WorkOrder.UpdateLineItem)

	// Maintenance records
	records := api.Group("/maintenance-records")
	records.POST("", c.Record.CreateRecord)
	records.GET("", c.Record.GetRecords)
	records.GET("/:id", c.Record.GetRecordByID)

	// Stock takes
	stockTakes := api.Group("/stock-takes")
	stockTakes.POST("", manager, c.StockTake.CreateSession)
	stockTakes.GET("", c.StockTake.GetSessions)
	stockTakes.GET("/:id", c.StockTake.GetSession)
	stockTakes.POST("/:id/scan", c.StockTake.Scan)
	stockTakes.POST("/:id/complete", manager, c.StockTake.CompleteSession)
	stockTakes.GET("/:id/summary", c.StockTake.GetSummary)

	// Saved views (ownership is enforced in the service)
	savedViews := api.Group("/saved-views")
	savedViews.POST("", c.SavedView.CreateView)
	savedViews.GET("", c.SavedView.GetViews)
	savedViews.GET("/:id", c.SavedView.GetViewByID)
	savedViews.PUT("/:id", c.SavedView.UpdateView)
	savedViews.DELETE("/:id", c.SavedView.DeleteView)

	// Reports
	reports := api.Group("/reports")
	reports.GET("/maintenance-compliance", c.Report.MaintenanceCompliance)
	reports.GET("/asset-utilization", c.Report.AssetUtilization)
	reports.GET("/group-utilization", c.Report.GroupUtilization)
	reports.GET("/booking-history", c.Report.BookingHistory)
	reports.GET("/stock-take/:sessionID", c.Report.StockTakeSummary)
	reports.GET("/maintenance-costs", c.Report.MaintenanceCosts)

	// Sweep worker surface (admin only)
	worker := api.Group("/worker")
	worker.Use(admin)
	worker.GET("/status", c.Worker.GetWorkerStatus)
	worker.GET("/health", c.Worker.CheckWorkerHealth)
	worker.POST("/sweep", c.Worker.RunSweep)

	// Create HTTP server
	srv := &http.Server{
		Addr:    config.AppHost + ":" + config.AppPort,
		Handler: r,
	}
	// Start server
	log.Infof("🚀 Starting server on %s:%s", config.AppHost, config.AppPort)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
