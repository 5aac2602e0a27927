package main

import (
	"context"
	"log"

	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/controller"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/docs"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/models"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/utils/logger"
	"github.com/eqrm/churchtools-inventory-extension-demo-sub002/worker"

	"github.com/gin-gonic/gin"
)

var config *models.Config

func Init() {
	var err error
	config, err = utils.GetConfig()
	if err != nil {
		log.Fatal(err)
	}
}

// @title Inventory Extension API
// @version 1.0
// @description Equipment inventory extension with asset tracking, bookings, maintenance scheduling and DynamoDB storage
// @description
// @description ## 🔥 AUTHENTICATION FLOW:
// @description ### Step 1: Register User
// @description **POST /auth/register** - Create user account (no token generated)
// @description `{"email": "user@example.com", "username": "jane", "password": "pass123", "first_name": "Jane", "last_name": "Doe"}`
// @description
// @description ## 🚀 QUICK AUTHENTICATION:
// @description ### Using the Sign in panel (Recommended)
// @description 1. Enter your **Email** and **Password** in the panel at the top of this page
// @description 2. Click **Sign in & authorize**
// @description 3. Your Bearer token is applied to every "Try it out" call automatically
// @description
// @description ### Manual Token Entry (Alternative)
// @description If you prefer manual setup: Get token from `/auth/login`, then paste `Bearer YOUR_TOKEN` in the Authorization field
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Enter 'Bearer' [space] and then your token in the text input below.
func main() {
	Init()

	appLogger := logger.NewLogger(config.LogLevel, config.LogFormat)
	appLogger.Infof("Starting %s v%s (%s)", config.AppName, config.AppVersion, config.AppEnv)

	docs.SwaggerInfo.Host = config.AppHost + ":" + config.AppPort
	docs.SwaggerInfo.BasePath = config.BasePath

	ctx := context.Background()

	r := gin.New()
	c := controller.NewController(ctx, config, appLogger)

	// Start server (this is blocking)
	go c.RegisterRoutes(ctx, config, r, config.BasePath)

	// Start the maintenance sweep worker: provisions the DynamoDB tables on
	// first run, then executes the cron-driven sweep
	sweepWorker, err := worker.NewService(ctx, config, appLogger, c.Services.GetSweepService())
	if err != nil {
		log.Fatalf("Failed to create sweep worker: %v", err)
	}

	if err := sweepWorker.StartInBackground(); err != nil {
		log.Fatalf("Failed to start sweep worker: %v", err)
	}

	// Keep main goroutine alive
	select {}
}
