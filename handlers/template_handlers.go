package handlers

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"emailbuilder/models"
	"emailbuilder/utils"
)

// CreateTemplateResponse carries the id of the stored template.
type CreateTemplateResponse struct {
	ID uint `json:"id"`
}

// CreateTemplate godoc
// @Summary Save a template
// @Description Persists the template value posted by the editor. Title and content are required.
// @Tags templates
// @Accept  json
// @Produce  json
// @Param   template body models.CreateTemplateRequest true "Template to save"
// @Success 200 {object} CreateTemplateResponse
// @Failure 400 {object} utils.ErrorResponse "Title or content missing, or the body is malformed"
// @Failure 500 {object} utils.ErrorResponse "The template could not be stored"
// @Router /api/uploadEmailConfig [post]
func (h *ApplicationHandler) CreateTemplate(c *fiber.Ctx) error {
	req := new(models.CreateTemplateRequest)
	if err := parseJSONBody(c, req); err != nil {
		return h.respondError(c, "Invalid request body", utils.NewValidationError("cannot parse template JSON", err))
	}

	if err := validate.Struct(req); err != nil {
		return h.respondError(c, validationMessage(err), utils.NewValidationError(
			strings.Join(utils.FormatValidationErrors(err), "; "), nil))
	}

	template := req.ToTemplate()
	id, err := h.Store.Insert(c.UserContext(), template)
	if err != nil {
		return h.respondError(c, "Failed to save template", err)
	}

	h.log(c).WithField("template_id", id).Info("Template saved successfully")
	if h.Metrics != nil {
		h.Metrics.TemplatesSaved.Inc()
	}
	return c.Status(fiber.StatusOK).JSON(CreateTemplateResponse{ID: id})
}

// ListTemplates godoc
// @Summary List templates
// @Description Returns every stored template, most recently created first.
// @Tags templates
// @Produce  json
// @Success 200 {array} models.Template
// @Failure 500 {object} utils.ErrorResponse "The templates could not be read"
// @Router /api/templates [get]
func (h *ApplicationHandler) ListTemplates(c *fiber.Ctx) error {
	templates, err := h.Store.ListAll(c.UserContext())
	if err != nil {
		return h.respondError(c, "Failed to fetch templates", err)
	}
	if templates == nil {
		templates = []models.Template{}
	}
	h.log(c).WithField("count", len(templates)).Debug("Templates listed")
	return c.Status(fiber.StatusOK).JSON(templates)
}

// validationMessage picks the headline for a failed validation. Missing
// title or content keeps the message the editor already knows.
func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return "Invalid template"
	}
	for _, fe := range verrs {
		if fe.Tag() == "required" && (fe.Field() == "Title" || fe.Field() == "Content") {
			return "Title and content are required"
		}
	}
	return "Invalid template"
}
