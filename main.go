package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"edusphere/config"
	authControllers "edusphere/controllers/auth"
	courseControllers "edusphere/controllers/course"
	"edusphere/database"
	authRoutes "edusphere/routers/authRoutes"
	courseRoutes "edusphere/routers/courseRoutes"
	"edusphere/store"
	"edusphere/utils"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	courseStore := store.NewCourseStore(db)
	ledger := store.NewEnrollmentLedger(db)
	coordinator := store.NewCoordinator(db, courseStore, ledger)

	authCtl := authControllers.NewController(db, courseStore, ledger, cfg.JWTKey, cfg.SaltRound)
	courseCtl := courseControllers.NewController(courseStore, ledger, coordinator, cfg.UploadDir)

	// Background sweep for failed cascades and counter drift
	utils.InitializeReconcileScheduler(coordinator, cfg.ReconcileSchedule)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve static files from the public folder
	app.Static("/", "./public")
	app.Static("/uploads", cfg.UploadDir)

	authRoutes.SetupAuthRoutes(app, cfg.JWTKey, authCtl, courseCtl)
	courseRoutes.SetupCourseRoutes(app, cfg.JWTKey, courseCtl)

	log.Printf("Server is running on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
