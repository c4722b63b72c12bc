package main

import (
	"context"
	"os"

	"notebook/internal/domain/events"
	"notebook/internal/domain/sqlite"
	"notebook/internal/domain/sqlite/repository"
	"notebook/internal/http/handler"
	authmw "notebook/internal/http/middleware"
	gateway "notebook/internal/infrastructure/aws/websocket"
	"notebook/internal/service"
	"notebook/internal/service/jobs"
	"notebook/internal/utils"
	"notebook/internal/utils/validators"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

const envVarsPrefix = "/notebook/prod/"

func main() {
	validate := validator.New()
	registerValidators(validate)

	// Loads env vars depending on environment
	if os.Getenv("GO_ENV") == "production" {
		loadProdEnv() // AWS SSM Parameter Store
	} else {
		// Loads from .env
		err := godotenv.Load()
		if err != nil {
			panic(err)
		}
	}

	if err := utils.InitJWKS(os.Getenv("JWKS_URL")); err != nil {
		panic(err)
	}

	// Init SQLite
	db, err := sqlite.Init("notebook.db")
	if err != nil {
		panic(err)
	}

	// Init websocket gateway client
	gw, err := gateway.NewAWSGatewayClient(context.Background(),
		os.Getenv("WS_GATEWAY_ENDPOINT"), os.Getenv("AWS_REGION"))
	if err != nil {
		panic(err)
	}

	// Getting repos
	noteRepo := repository.NewNoteRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	userRepo := repository.NewUserRepository(db)
	connRepo := repository.NewConnectionRepository(db)

	// Event bus and its observers
	bus := events.NewBus()

	// Getting services
	noteService := service.NewNoteService(noteRepo, courseRepo, userRepo, bus, validate)
	wsService := service.NewWebSocketService(connRepo, gw)
	wsService.Register(bus)
	service.NewScopeMaintenance(noteRepo).Register(bus)

	// Getting handlers
	noteRoutes := handler.NewNoteDefault(noteService)
	wsRoutes := handler.NewWebSocketDefault(wsService)

	// Stale connection sweep
	go jobs.NewConnectionCleaner(wsService).Start(context.Background())

	e := echo.New()
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("10M"))

	auth := authmw.NewAuthMiddleware(&authmw.AuthMiddlewareConfig{UserRepo: userRepo})
	api := e.Group("/api", auth)

	// Notes
	api.GET("/notes", noteRoutes.GetNotes)
	api.GET("/notes/:id", noteRoutes.GetNote)
	api.POST("/notes", noteRoutes.CreateNote)
	api.PUT("/notes/:id", noteRoutes.UpdateNote)
	api.DELETE("/notes", noteRoutes.DeleteNotes)
	api.POST("/notes/:id/viewed", noteRoutes.NoteViewed)
	api.GET("/notes/form-subject", noteRoutes.GetFormSubject)

	// Websocket connection bookkeeping
	api.POST("/connections", wsRoutes.Connect)
	api.DELETE("/connections", wsRoutes.Disconnect)
	api.POST("/connections/messages", wsRoutes.Message)

	// Docker Compose healthcheck
	e.GET("/health", healthCheckRoute)

	if err := e.Start(":7070"); err != nil {
		panic(err)
	}
}

func registerValidators(validate *validator.Validate) {
	_ = validate.RegisterValidation("notblank", validators.NotBlank)
	_ = validate.RegisterValidation("nodupes", validators.NoDupes)
}

func loadProdEnv() {
	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	client := ssm.NewFromConfig(cfg)
	out, err := client.GetParametersByPath(ctx, &ssm.GetParametersByPathInput{
		Path:           aws.String(envVarsPrefix),
		WithDecryption: aws.Bool(true),
		Recursive:      aws.Bool(true),
	})
	if err != nil {
		log.Fatalf("unable to load prod environment, %v", err)
	}

	prefixLength := len(envVarsPrefix)
	// Export vars
	for _, param := range out.Parameters {
		key := (*param.Name)[prefixLength:]
		value := *param.Value
		enverr := os.Setenv(key, value)
		if enverr != nil {
			log.Fatalf("unable to set environment variable, %v", enverr)
		}
	}
	log.Debugf("loaded %d prod environment variables", len(out.Parameters))
}

func healthCheckRoute(c echo.Context) error {
	return c.String(200, "OK")
}
