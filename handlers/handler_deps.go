package handlers

import (
	"context"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"emailbuilder/internal/worker"
	"emailbuilder/middleware"
	"emailbuilder/models"
	"emailbuilder/utils"
)

var validate = validator.New()

// TemplateStore persists and lists templates.
type TemplateStore interface {
	Insert(ctx context.Context, t *models.Template) (uint, error)
	ListAll(ctx context.Context) ([]models.Template, error)
}

// AssetStore stores uploaded files and knows where they live.
type AssetStore interface {
	Save(ctx context.Context, r io.Reader, originalName string) (name string, url string, err error)
	Path(name string) string
	Dir() string
}

// LayoutSource provides the raw email layout.
type LayoutSource interface {
	Read(ctx context.Context) (string, error)
}

// Renderer substitutes values into a layout.
type Renderer interface {
	Render(layout string, values map[string]any) (string, error)
}

// JobSubmitter queues background work.
type JobSubmitter interface {
	SubmitJob(job worker.Job) error
}

// ApplicationHandler holds shared dependencies for handlers.
type ApplicationHandler struct {
	Store    TemplateStore
	Assets   AssetStore
	Layout   LayoutSource
	Renderer Renderer
	Logger   *logrus.Logger

	// Optional collaborators
	Jobs          JobSubmitter // Thumbnails are skipped when nil
	ThumbnailSize int
	// ThumbnailMaxPixels overrides the decode limit of thumbnail jobs when set.
	ThumbnailMaxPixels int64
	Metrics            *middleware.Metrics

	// Debug attaches stack traces to 500 responses.
	Debug bool
}

// NewApplicationHandler creates a new ApplicationHandler with the required dependencies.
func NewApplicationHandler(store TemplateStore, assets AssetStore, layout LayoutSource, renderer Renderer, logger *logrus.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		Store:    store,
		Assets:   assets,
		Layout:   layout,
		Renderer: renderer,
		Logger:   logger,
	}
}

// log returns a logger entry tagged with the request id.
func (h *ApplicationHandler) log(c *fiber.Ctx) *logrus.Entry {
	return h.Logger.WithField("request_id", middleware.RequestID(c))
}

// parseJSONBody decodes a JSON request body into out. Bodies sent without a
// JSON content type are ignored and out keeps its zero value.
func parseJSONBody(c *fiber.Ctx, out any) error {
	if !c.Is("json") {
		return nil
	}
	return c.BodyParser(out)
}

// respondError logs err and writes the error body with the status its kind
// maps to. Stack traces are only attached to server errors.
func (h *ApplicationHandler) respondError(c *fiber.Ctx, message string, err error) error {
	status := utils.StatusFor(err)
	entry := h.log(c).WithField("error", err.Error())
	if status >= fiber.StatusInternalServerError {
		entry.Error(message)
		return utils.RespondWithErrorDetails(c, status, message, err, h.Debug)
	}
	entry.Warn(message)
	return utils.RespondWithErrorDetails(c, status, message, err, false)
}
