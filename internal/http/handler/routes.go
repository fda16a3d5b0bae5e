package handler

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"courtflow/internal/http/middleware"
	"courtflow/internal/service"
	"courtflow/internal/workflow"
)

// decisionBody is the payload for submit/approve/reject commands.
type decisionBody struct {
	Comment string `json:"comment"`
	Reason  string `json:"reason"`
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app. Handlers
// stay thin: parse, call the service, translate the error.
func RegisterRoutes(app *fiber.App, db *sql.DB, auth fiber.Handler, expSvc workflow.ExpedienteService, newsSvc workflow.NewsService, attSvc service.AttachmentService) {
	// Serve OpenAPI spec and Swagger UI
	app.Get("/openapi.yaml", func(c *fiber.Ctx) error {
		c.Type("yaml")
		return c.SendFile("openapi.yaml")
	})
	app.Get("/docs", func(c *fiber.Ctx) error {
		html := `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/openapi.yaml',
      dom_id: '#swagger-ui',
      presets: [SwaggerUIBundle.presets.apis],
      layout: 'BaseLayout'
    });
  </script>
</body>
</html>`
		return c.Type("html").SendString(html)
	})

	// Health endpoint: checks DB connectivity only
	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	})

	// Simple liveness probe
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	registerExpedienteRoutes(app, auth, expSvc, attSvc)
	registerNewsRoutes(app, auth, newsSvc)
}

func registerExpedienteRoutes(app *fiber.App, auth fiber.Handler, svc workflow.ExpedienteService, attSvc service.AttachmentService) {
	g := app.Group("/expedientes", auth)

	g.Post("/", func(c *fiber.Ctx) error {
		var in workflow.CreateExpedienteInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		e, err := svc.Create(c.UserContext(), middleware.ActorFromCtx(c), in)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(e)
	})

	g.Get("/", func(c *fiber.Ctx) error {
		limit, offset, ok := pageParams(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGINATION", "invalid limit or offset")
		}
		res, err := svc.List(c.UserContext(), middleware.ActorFromCtx(c), limit, offset)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(res)
	})

	g.Get("/:id", func(c *fiber.Ctx) error {
		id, ok := uuidParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		view, err := svc.Get(c.UserContext(), middleware.ActorFromCtx(c), id)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(view)
	})

	g.Put("/:id", func(c *fiber.Ctx) error {
		id, ok := uuidParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var in workflow.UpdateExpedienteInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		e, err := svc.Update(c.UserContext(), middleware.ActorFromCtx(c), id, in)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(e)
	})

	g.Delete("/:id", func(c *fiber.Ctx) error {
		id, ok := uuidParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), middleware.ActorFromCtx(c), id); err != nil {
			return writeDomainError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	g.Post("/:id/submit", func(c *fiber.Ctx) error {
		id, ok := uuidParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var body decisionBody
		_ = c.BodyParser(&body) // comment is optional
		e, err := svc.Submit(c.UserContext(), middleware.ActorFromCtx(c), id, body.Comment)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(e)
	})

	g.Post("/:id/approve", func(c *fiber.Ctx) error {
		id, ok := uuidParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var body decisionBody
		_ = c.BodyParser(&body)
		e, err := svc.Approve(c.UserContext(), middleware.ActorFromCtx(c), id, body.Comment)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(e)
	})

	g.Post("/:id/reject", func(c *fiber.Ctx) error {
		id, ok := uuidParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var body decisionBody
		_ = c.BodyParser(&body)
		e, err := svc.Reject(c.UserContext(), middleware.ActorFromCtx(c), id, body.Reason)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(e)
	})

	g.Get("/:id/history", func(c *fiber.Ctx) error {
		id, ok := uuidParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		records, err := svc.History(c.UserContext(), middleware.ActorFromCtx(c), id)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(fiber.Map{"data": records})
	})

	// Attachment upload (multipart/form-data, field name: file)
	g.Post("/:id/attachments", func(c *fiber.Ctx) error {
		id, ok := uuidParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		ct := fh.Header.Get("Content-Type")
		if ct == "" {
			ct = "application/octet-stream"
		}

		att, err := attSvc.Upload(c.UserContext(), middleware.ActorFromCtx(c), id, f, fh.Filename, ct, fh.Size)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(att)
	})

	g.Get("/:id/attachments", func(c *fiber.Ctx) error {
		id, ok := uuidParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		atts, err := attSvc.List(c.UserContext(), middleware.ActorFromCtx(c), id)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(fiber.Map{"data": atts})
	})

	a := app.Group("/attachments", auth)

	a.Get("/:id/download", func(c *fiber.Ctx) error {
		id, ok := uuidParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		u, err := attSvc.DownloadURL(c.UserContext(), middleware.ActorFromCtx(c), id)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(fiber.Map{"url": u})
	})

	a.Delete("/:id", func(c *fiber.Ctx) error {
		id, ok := uuidParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := attSvc.Delete(c.UserContext(), middleware.ActorFromCtx(c), id); err != nil {
			return writeDomainError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

func registerNewsRoutes(app *fiber.App, auth fiber.Handler, svc workflow.NewsService) {
	g := app.Group("/news", auth)

	g.Post("/", func(c *fiber.Ctx) error {
		var in workflow.CreateNewsInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		n, err := svc.Create(c.UserContext(), middleware.ActorFromCtx(c), in)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(n)
	})

	// Court-to-press channel: creates a notice or communique already in
	// review, bypassing the draft stage.
	g.Post("/court-submission", func(c *fiber.Ctx) error {
		var in workflow.CourtSubmissionInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		n, err := svc.SubmitFromCourt(c.UserContext(), middleware.ActorFromCtx(c), in)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(n)
	})

	g.Get("/", func(c *fiber.Ctx) error {
		limit, offset, ok := pageParams(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PAGINATION", "invalid limit or offset")
		}
		res, err := svc.List(c.UserContext(), middleware.ActorFromCtx(c), limit, offset)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(res)
	})

	g.Get("/:id", func(c *fiber.Ctx) error {
		id, ok := uuidParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		view, err := svc.Get(c.UserContext(), middleware.ActorFromCtx(c), id)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(view)
	})

	g.Put("/:id", func(c *fiber.Ctx) error {
		id, ok := uuidParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var in workflow.UpdateNewsInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}
		n, err := svc.Update(c.UserContext(), middleware.ActorFromCtx(c), id, in)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(n)
	})

	g.Delete("/:id", func(c *fiber.Ctx) error {
		id, ok := uuidParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), middleware.ActorFromCtx(c), id); err != nil {
			return writeDomainError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	g.Post("/:id/submit", func(c *fiber.Ctx) error {
		id, ok := uuidParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var body decisionBody
		_ = c.BodyParser(&body)
		n, err := svc.Submit(c.UserContext(), middleware.ActorFromCtx(c), id, body.Comment)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(n)
	})

	g.Post("/:id/approve", func(c *fiber.Ctx) error {
		id, ok := uuidParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var body decisionBody
		_ = c.BodyParser(&body)
		n, err := svc.Approve(c.UserContext(), middleware.ActorFromCtx(c), id, body.Comment)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(n)
	})

	g.Post("/:id/reject", func(c *fiber.Ctx) error {
		id, ok := uuidParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		var body decisionBody
		_ = c.BodyParser(&body)
		n, err := svc.Reject(c.UserContext(), middleware.ActorFromCtx(c), id, body.Reason)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(n)
	})

	g.Get("/:id/history", func(c *fiber.Ctx) error {
		id, ok := uuidParam(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		records, err := svc.History(c.UserContext(), middleware.ActorFromCtx(c), id)
		if err != nil {
			return writeDomainError(c, err)
		}
		return c.JSON(fiber.Map{"data": records})
	})
}

func uuidParam(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

func pageParams(c *fiber.Ctx) (limit, offset int, ok bool) {
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		return 0, 0, false
	}
	offset, err = strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		return 0, 0, false
	}
	return limit, offset, true
}
