// Package render substitutes template values into an email layout.
//
// Layouts use double-brace placeholders such as {{ title }} or
// {{ styles.titleColor }}. A placeholder with no matching value renders as
// the empty string. Values are HTML-escaped by default.
package render

import (
	"fmt"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
)

// richTextFields may carry formatting markup when HTML is allowed.
var richTextFields = map[string]bool{
	"title":   true,
	"content": true,
	"footer":  true,
}

// Option configures an Engine.
type Option func(*Engine)

// WithAllowHTML lets markup in the rich text fields through to the output
// after running it through policy. A nil policy selects the user generated
// content policy.
func WithAllowHTML(policy *bluemonday.Policy) Option {
	return func(e *Engine) {
		if policy == nil {
			policy = bluemonday.UGCPolicy()
		}
		e.policy = policy
	}
}

// Engine renders layouts. It is safe for concurrent use.
type Engine struct {
	policy *bluemonday.Policy

	// pongo2 template sets are not safe for concurrent parsing
	mu  sync.Mutex
	set *pongo2.TemplateSet
}

// New returns an Engine configured by opts.
func New(opts ...Option) *Engine {
	e := &Engine{
		set: pongo2.NewSet("emailbuilder", pongo2.MustNewLocalFileSystemLoader("")),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// AllowsHTML reports whether rich text fields keep sanitized markup.
func (e *Engine) AllowsHTML() bool {
	return e.policy != nil
}

// Render substitutes values into layout and returns the resulting document.
func (e *Engine) Render(layout string, values map[string]any) (string, error) {
	e.mu.Lock()
	tpl, err := e.set.FromString(layout)
	e.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("parse layout: %w", err)
	}
	out, err := tpl.Execute(e.context(values))
	if err != nil {
		return "", fmt.Errorf("execute layout: %w", err)
	}
	return out, nil
}

func (e *Engine) context(values map[string]any) pongo2.Context {
	ctx := make(pongo2.Context, len(values))
	for key, value := range values {
		if s, ok := value.(string); ok && e.policy != nil && richTextFields[key] {
			ctx[key] = pongo2.AsSafeValue(e.policy.Sanitize(s))
			continue
		}
		ctx[key] = value
	}
	return ctx
}
