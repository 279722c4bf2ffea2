package main

import (
	"log"
	"time"

	"github.com/anjiri1684/hireloom/aptitude"
	config "github.com/anjiri1684/hireloom/configs"
	"github.com/anjiri1684/hireloom/database"
	"github.com/anjiri1684/hireloom/handlers"
	"github.com/anjiri1684/hireloom/jobs"
	"github.com/anjiri1684/hireloom/models"
	"github.com/anjiri1684/hireloom/notifications"
	"github.com/anjiri1684/hireloom/routes"
	"github.com/anjiri1684/hireloom/services"
	"github.com/anjiri1684/hireloom/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("🔥 Invalid configuration: %v", err)
	}

	database.ConnectDB(cfg)
	database.Migrate()
	database.SeedAdmin(cfg)
	mailer := notifications.InitEmailService(cfg)

	store := database.NewStore(database.DB)
	generator, generatorName := services.NewGenerator(cfg)
	tests := services.NewAptitudeService(store, generator, generatorName)
	delivery := services.NewDeliveryService(store, mailer, cfg.FrontendURL, cfg.InvitationTTL())

	reports, err := services.NewReportService(store, cfg.CloudinaryURL)
	var reporter services.Reporter
	if err != nil {
		log.Printf("⚠️ PDF reports disabled: %v", err)
	} else {
		reporter = reports
	}
	sessions := services.NewExamSessionService(store, reporter)
	sessions.OnRecorded = func(resp *models.TestResponse, test *aptitude.AptitudeTest) {
		if recruiterID, err := uuid.Parse(test.CreatedBy); err == nil {
			websocket.Publish(recruiterID, websocket.EventResponseCompleted, resp)
		}
	}

	c := cron.New()
	if err := jobs.Register(c, jobs.Deps{
		Delivery:         delivery,
		Sessions:         sessions,
		SessionRetention: cfg.SessionRetention(),
	}); err != nil {
		log.Fatalf("🔥 Failed to schedule jobs: %v", err)
	}
	c.Start()
	defer c.Stop()
	log.Println("✅ Cron jobs for invitations and exam sessions scheduled successfully.")

	go websocket.RunHub()

	app := fiber.New(fiber.Config{
		AppName:       "Hireloom",
		CaseSensitive: true,
		StrictRouting: true,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"status":  "error",
				"code":    code,
				"message": err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.FrontendURL,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Disposition",
		MaxAge:        86400,
	}))
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "Welcome to Hireloom API",
		})
	})

	aptitudeHandler := &handlers.AptitudeHandler{Tests: tests, Delivery: delivery, Reports: reports}
	takeTestHandler := &handlers.TakeTestHandler{Sessions: sessions}

	routes.SystemRoutes(app)
	routes.AuthRoutes(app)
	routes.ProfileRoutes(app)
	routes.PublicRoutes(app, takeTestHandler)
	routes.RecruitingRoutes(app, aptitudeHandler)
	routes.MessagingRoutes(app)
	routes.UploadRoutes(app)
	routes.AdminRoutes(app)

	log.Printf("✅ Server is running on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
