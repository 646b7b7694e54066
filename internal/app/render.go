package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"

	"emailbuilder/config"
	"emailbuilder/internal/layout"
	"emailbuilder/internal/render"
	"emailbuilder/models"
	"emailbuilder/utils"
)

// RenderFile reads a template value as JSON from in, renders it through the
// configured layout and writes the document to out. It produces the same
// bytes as the download endpoint.
func RenderFile(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	value := new(models.TemplateValue)
	if err := json.NewDecoder(in).Decode(value); err != nil {
		return utils.NewValidationError("cannot parse template JSON", err)
	}
	if err := validator.New().Struct(value); err != nil {
		return utils.NewValidationError("invalid template value", err)
	}

	raw, err := layout.NewSource(cfg.LayoutPath).Read(ctx)
	if err != nil {
		return err
	}

	var opts []render.Option
	if cfg.RenderAllowHTML {
		opts = append(opts, render.WithAllowHTML(nil))
	}
	html, err := render.New(opts...).Render(raw, value.RenderValues())
	if err != nil {
		return err
	}

	if _, err := io.WriteString(out, html); err != nil {
		return fmt.Errorf("write rendered template: %w", err)
	}
	return nil
}
