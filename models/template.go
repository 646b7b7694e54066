package models

import (
	"time"
)

// Alignment values accepted for TemplateStyles.Alignment.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// TemplateStyles holds the presentational options chosen in the editor.
// It is stored as a JSON blob and is opaque to the store.
type TemplateStyles struct {
	TitleColor   string `json:"titleColor,omitempty"`
	TitleSize    string `json:"titleSize,omitempty"`
	ContentColor string `json:"contentColor,omitempty"`
	ContentSize  string `json:"contentSize,omitempty"`
	Alignment    string `json:"alignment,omitempty" validate:"omitempty,oneof=left center right"`
}

// Template represents a persisted email template record.
type Template struct {
	ID        uint            `json:"id"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Footer    *string         `json:"footer,omitempty"`   // Nullable TEXT
	ImageURL  *string         `json:"imageUrl,omitempty"` // Nullable TEXT
	Styles    *TemplateStyles `json:"styles,omitempty"`   // Serialized to TEXT
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TemplateValue is the value posted by the editor, both when saving a
// template and when rendering one for download.
type TemplateValue struct {
	Title    string          `json:"title"`
	Content  string          `json:"content"`
	Footer   *string         `json:"footer,omitempty"`
	ImageURL *string         `json:"imageUrl,omitempty"`
	Styles   *TemplateStyles `json:"styles,omitempty"`
}

// CreateTemplateRequest is the body of the save endpoint. Title and content
// are required and must not be empty.
type CreateTemplateRequest struct {
	Title    string          `json:"title" validate:"required"`
	Content  string          `json:"content" validate:"required"`
	Footer   *string         `json:"footer,omitempty"`
	ImageURL *string         `json:"imageUrl,omitempty"`
	Styles   *TemplateStyles `json:"styles,omitempty"`
}

// ToTemplate converts the request into an unsaved Template.
func (r *CreateTemplateRequest) ToTemplate() *Template {
	return &Template{
		Title:    r.Title,
		Content:  r.Content,
		Footer:   r.Footer,
		ImageURL: r.ImageURL,
		Styles:   r.Styles,
	}
}

// RenderValues flattens the value into the mapping handed to the render
// engine. Absent optional fields are left out so their placeholders render
// empty.
func (v *TemplateValue) RenderValues() map[string]any {
	values := map[string]any{
		"title":   v.Title,
		"content": v.Content,
	}
	if v.Footer != nil {
		values["footer"] = *v.Footer
	}
	if v.ImageURL != nil {
		values["imageUrl"] = *v.ImageURL
	}
	if v.Styles != nil {
		styles := make(map[string]any)
		if v.Styles.TitleColor != "" {
			styles["titleColor"] = v.Styles.TitleColor
		}
		if v.Styles.TitleSize != "" {
			styles["titleSize"] = v.Styles.TitleSize
		}
		if v.Styles.ContentColor != "" {
			styles["contentColor"] = v.Styles.ContentColor
		}
		if v.Styles.ContentSize != "" {
			styles["contentSize"] = v.Styles.ContentSize
		}
		if v.Styles.Alignment != "" {
			styles["alignment"] = v.Styles.Alignment
		}
		values["styles"] = styles
	}
	return values
}
