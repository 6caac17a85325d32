// Copyright 2025 The SlaxWeb View Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package view binds logical view names to templates and composes them
// with sub-views and layouts.
//
// Application views embed *Base and are registered in a Registry under a
// qualified type name. A Resolver creates them per request, inside a Scope
// that owns the request's response and caches resolved views.
package view

import (
	"github.com/rs/zerolog"

	"github.com/slaxweb/view/loader"
	"github.com/slaxweb/view/metrics"
)

const (
	// MainViewKey is the layout data key holding the wrapped view's output.
	MainViewKey = "mainView"

	// SubViewKeyPrefix is prefixed to sub-view names to form the data key
	// holding the sub-view's output.
	SubViewKeyPrefix = "subview_"
)

// View renders a template with data. In Return mode, the rendered text is
// returned; in Output mode it is appended to the request's response and the
// returned string is empty. The boolean is false if rendering failed.
type View interface {
	Render(data map[string]any, out loader.OutputMode, cache loader.CacheMode) (string, bool)
}

// Initializer is implemented by views that need arguments at resolve time.
// The resolver calls Init with the extra arguments passed to Resolve.
type Initializer interface {
	Init(args ...any) error
}

type Option func(*Base)

// WithTemplate pre-assigns the template name, disabling automatic naming.
func WithTemplate(name string) Option {
	return func(b *Base) {
		b.template = name
	}
}

// WithTypeName sets the qualified type name of the view.
func WithTypeName(name string) Option {
	return func(b *Base) {
		b.typeName = name
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(b *Base) {
		b.logger = logger
	}
}

type subView struct {
	name string
	view View
}

// Base implements View for a single template. It is embedded by
// application views.
type Base struct {
	config   *Config
	loader   loader.Loader
	response loader.Response
	logger   zerolog.Logger

	typeName string
	template string
	subViews []subView
	layout   View
}

// NewBase creates a view using ld to render templates from the configured
// base directory. The loader must not be shared with other views.
func NewBase(cfg *Config, ld loader.Loader, resp loader.Response, opts ...Option) *Base {
	b := &Base{
		config:   cfg,
		loader:   ld,
		response: resp,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.loader.SetTemplateDir(cfg.BaseDir)

	if b.template == "" && cfg.AutoTplName {
		b.template = SimpleName(b.typeName)
	}
	return b
}

func (b *Base) Template() string {
	return b.template
}

func (b *Base) SetTemplate(name string) {
	b.template = name
}

// TypeName returns the qualified type name of the view.
func (b *Base) TypeName() string {
	return b.typeName
}

func (b *Base) Config() *Config {
	return b.config
}

func (b *Base) Logger() zerolog.Logger {
	return b.logger
}

// AddSubView registers a view whose output is available to this view's
// template under SubViewKeyPrefix + name. Sub-views render when this view
// renders, in the order they were added. Adding a name twice replaces the
// earlier view but keeps its position.
func (b *Base) AddSubView(name string, v View) {
	for i, sv := range b.subViews {
		if sv.name == name {
			b.subViews[i].view = v
			return
		}
	}
	b.subViews = append(b.subViews, subView{name: name, view: v})
}

// SetLayout sets the view that wraps this view's output. The layout
// receives this view's data plus the rendered output under MainViewKey.
func (b *Base) SetLayout(v View) {
	b.layout = v
}

func (b *Base) Layout() View {
	return b.layout
}

func (b *Base) Render(data map[string]any, out loader.OutputMode, cache loader.CacheMode) (string, bool) {
	merged := make(map[string]any, len(data)+len(b.subViews)+1)
	for k, v := range data {
		merged[k] = v
	}

	for _, sv := range b.subViews {
		rendered, ok := sv.view.Render(copyData(data), loader.Return, loader.CacheVars)
		if !ok {
			b.logger.Warn().
				Str("view", b.typeName).
				Str("subview", sv.name).
				Msg("Failed to render sub-view")
			return "", false
		}
		merged[SubViewKeyPrefix+sv.name] = loader.Markup(rendered)
	}

	mode := out
	if b.layout != nil {
		mode = loader.Return
	}

	b.loader.SetTemplate(b.template)
	rendered, err := b.loader.Render(merged, mode, cache)
	if err != nil {
		var event *zerolog.Event
		if loader.IsTemplateNotFound(err) {
			event = b.logger.Warn()
		} else {
			event = b.logger.Error()
		}
		event.Err(err).
			Str("view", b.typeName).
			Str("template", b.template).
			Msg("Failed to render view template")
		return b.fail()
	}

	if b.layout != nil {
		merged[MainViewKey] = loader.Markup(rendered)

		var ok bool
		rendered, ok = b.layout.Render(merged, loader.Return, cache)
		if !ok {
			b.logger.Warn().
				Str("view", b.typeName).
				Msg("Failed to render layout")
			return "", false
		}

		if out == loader.Output {
			if b.response == nil {
				b.logger.Error().
					Str("view", b.typeName).
					Msg("Cannot output view without a response")
				return b.fail()
			}
			b.response.SetContent(b.response.Content() + rendered)
		}
	}

	if out == loader.Return {
		return rendered, true
	}
	return "", true
}

// fail counts a render failure. Failures propagated from sub-views and
// layouts were already counted where they happened.
func (b *Base) fail() (string, bool) {
	metrics.FailedRender()
	return "", false
}

func copyData(data map[string]any) map[string]any {
	c := make(map[string]any, len(data))
	for k, v := range data {
		c[k] = v
	}
	return c
}
