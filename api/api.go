// Package api serves a workflow.Repository over the REST surface the editor
// consumes: list, create, full replace, partial update and delete.
package api

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/meikuraledutech/workflow"
)

// New builds the fiber app. Schema routes are mounted only when repo also
// manages a schema.
func New(repo workflow.Repository, logger *slog.Logger) *fiber.App {
	app := fiber.New()
	app.Use(recoverer.New())
	app.Use(requestLogger(logger))

	// ── Schema ────────────────────────────────────────────────────────
	if schema, ok := repo.(workflow.SchemaManager); ok {
		app.Post("/schema", func(c fiber.Ctx) error {
			if err := schema.CreateSchema(c.Context()); err != nil {
				return fail(c, err)
			}
			return c.JSON(fiber.Map{"message": "schema created"})
		})

		app.Delete("/schema", func(c fiber.Ctx) error {
			if err := schema.DropSchema(c.Context()); err != nil {
				return fail(c, err)
			}
			return c.JSON(fiber.Map{"message": "schema dropped"})
		})
	}

	// ── Workflows ─────────────────────────────────────────────────────
	app.Get("/workflows", func(c fiber.Ctx) error {
		docs, err := repo.List(c.Context())
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(workflow.Search(docs, c.Query("q")))
	})

	app.Post("/workflows", func(c fiber.Ctx) error {
		var d workflow.Document
		if err := c.Bind().JSON(&d); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		if _, err := workflow.FromDocument(d); err != nil {
			return fail(c, err)
		}
		created, err := repo.Create(c.Context(), &d)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(created)
	})

	app.Put("/workflows/:id", func(c fiber.Ctx) error {
		var d workflow.Document
		if err := c.Bind().JSON(&d); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		if _, err := workflow.FromDocument(d); err != nil {
			return fail(c, err)
		}
		replaced, err := repo.Replace(c.Context(), c.Params("id"), &d)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(replaced)
	})

	app.Patch("/workflows/:id", func(c fiber.Ctx) error {
		var p workflow.Patch
		if err := c.Bind().JSON(&p); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}
		patched, err := repo.Patch(c.Context(), c.Params("id"), p)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(patched)
	})

	app.Delete("/workflows/:id", func(c fiber.Ctx) error {
		if err := repo.Delete(c.Context(), c.Params("id")); err != nil {
			return fail(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	return app
}

// fail maps a repository or validation error to a status code.
func fail(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, workflow.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, workflow.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, workflow.ErrValidation):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

// requestLogger logs one line per request. A handler error has not been
// written to the response yet, so its status is taken from the error the
// way fiber's default error handler does.
func requestLogger(logger *slog.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}
		logger.Info("request",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration", time.Since(start),
		)
		return err
	}
}
