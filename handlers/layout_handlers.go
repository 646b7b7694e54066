package handlers

import (
	"github.com/gofiber/fiber/v2"

	"emailbuilder/models"
	"emailbuilder/utils"
)

// DownloadFilename is the attachment name of rendered templates.
const DownloadFilename = "email-template.html"

// GetEmailLayout godoc
// @Summary Fetch the email layout
// @Description Returns the raw layout HTML with its placeholders.
// @Tags layout
// @Produce  html
// @Success 200 {string} string "Layout HTML"
// @Failure 500 {object} utils.ErrorResponse "The layout file could not be read"
// @Router /api/getEmailLayout [get]
func (h *ApplicationHandler) GetEmailLayout(c *fiber.Ctx) error {
	layout, err := h.Layout.Read(c.UserContext())
	if err != nil {
		// A missing layout is reported as 500 like any other read failure
		return h.respondError(c, "Failed to read template file", err)
	}
	c.Type("html", "utf-8")
	return c.Status(fiber.StatusOK).SendString(layout)
}

// RenderAndDownloadTemplate godoc
// @Summary Render a template for download
// @Description Substitutes the posted template value into the layout and returns it as an HTML attachment.
// @Tags layout
// @Accept  json
// @Produce  html
// @Param   template body models.TemplateValue true "Template value to render"
// @Success 200 {string} string "Rendered HTML document"
// @Failure 400 {object} utils.ErrorResponse "The body is malformed"
// @Failure 500 {object} utils.ErrorResponse "The layout could not be read or rendered"
// @Router /api/renderAndDownloadTemplate [post]
func (h *ApplicationHandler) RenderAndDownloadTemplate(c *fiber.Ctx) error {
	value := new(models.TemplateValue)
	if err := parseJSONBody(c, value); err != nil {
		return h.respondError(c, "Invalid request body", utils.NewValidationError("cannot parse template JSON", err))
	}
	if err := validate.Struct(value); err != nil {
		return h.respondError(c, "Invalid template", utils.NewValidationError("invalid template value", err))
	}

	layout, err := h.Layout.Read(c.UserContext())
	if err != nil {
		return h.respondError(c, "Failed to render template", err)
	}
	html, err := h.Renderer.Render(layout, value.RenderValues())
	if err != nil {
		return h.respondError(c, "Failed to render template", err)
	}

	if h.Metrics != nil {
		h.Metrics.TemplatesRendered.Inc()
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+DownloadFilename)
	return c.Status(fiber.StatusOK).SendString(html)
}
