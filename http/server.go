// http/server.go
package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"

	"github.com/ViniZap4/gestor360/auth"
	"github.com/ViniZap4/gestor360/events"
	"github.com/ViniZap4/gestor360/gitsync"
	"github.com/ViniZap4/gestor360/store"
)

type Server struct {
	store  store.Store
	syncer gitsync.Syncer
	hub    *events.Hub
}

func NewServer(s store.Store, syncer gitsync.Syncer, hub *events.Hub) *Server {
	return &Server{store: s, syncer: syncer, hub: hub}
}

type Options struct {
	// TokenHash is a bcrypt hash of the API token; empty disables auth.
	TokenHash      string
	AllowedOrigins []string
}

// App builds the fiber application with every route mounted.
func (s *Server) App(opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "gestor360",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	origins := "*"
	if len(opts.AllowedOrigins) > 0 {
		origins = strings.Join(opts.AllowedOrigins, ",")
	}

	app.Use(recover.New())
	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, " + auth.HeaderToken,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "time": time.Now().UTC()})
	})

	api := app.Group("/api", auth.Middleware(opts.TokenHash))

	api.Get("/folders", s.handleFolders)
	api.Get("/documents", s.handleDocuments)
	api.Get("/documents/folder/:folder", s.handleDocumentsByFolder)
	api.Get("/documents/:id/kanban", s.handleKanban)
	api.Get("/documents/:id", s.handleGetDocument)
	api.Post("/documents", s.handleCreateDocument)
	api.Patch("/documents/:id", s.handleUpdateDocument)
	api.Delete("/documents/:id", s.handleDeleteDocument)
	api.Get("/search", s.handleSearch)
	api.Post("/git/sync", s.handleGitSync)
	api.Get("/events", s.handleEvents)

	return app
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		log.Info().
			Str("component", "http").
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("Request")
		return err
	}
}
