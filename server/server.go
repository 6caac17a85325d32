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

package server

import (
	"net/http"

	"github.com/bluekeyes/hatpear"
	"github.com/c2h5oh/datasize"
	"github.com/palantir/go-baseapp/baseapp"
	"github.com/palantir/go-baseapp/baseapp/datadog"
	"github.com/pkg/errors"
	"goji.io/pat"

	"github.com/slaxweb/view/loader"
	"github.com/slaxweb/view/metrics"
	"github.com/slaxweb/view/server/handler"
	"github.com/slaxweb/view/server/pages"
	"github.com/slaxweb/view/view"
)

const (
	DefaultTemplateCacheSize = 256
	DefaultMaxTemplateSize   = 1 * datasize.MB
)

type Server struct {
	config *Config
	base   *baseapp.Server
}

// New instantiates a new Server.
// Callers must then invoke Start to run the Server.
func New(c *Config) (*Server, error) {
	c.FillDefaults()

	logger := baseapp.NewLogger(baseapp.LoggingConfig{
		Level:  c.Logging.Level,
		Pretty: c.Logging.Text,
	})

	base, err := baseapp.NewServer(c.Server, baseapp.DefaultParams(logger, "slaxview.")...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize base server")
	}
	metrics.SetRegistry(base.Registry())

	registry := view.NewRegistry()
	pages.Register(registry, c.View.ClassNamespace)

	resolver, err := NewResolver(c, registry)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("backend", resolver.Backend()).
		Str("base_dir", c.View.BaseDir).
		Strs("views", registry.Names()).
		Msg("Configured view resolver")

	views := handler.Base{
		Resolver: resolver,
		Registry: registry,
	}

	mux := base.Mux()

	// API routes
	mux.Handle(pat.Get("/api/health"), handler.Health())
	mux.Handle(pat.Post("/api/render/:name"), hatpear.Try(&handler.Render{Base: views}))

	// client routes
	mux.Handle(pat.Get("/favicon.ico"), http.NotFoundHandler())
	mux.Handle(pat.Get("/static/*"), handler.Static("/static/", &c.Files))
	mux.Handle(pat.Get("/pages/:name"), hatpear.Try(&handler.Page{Base: views}))
	mux.Handle(pat.Get("/"), hatpear.Try(&handler.Index{Base: views}))

	return &Server{
		config: c,
		base:   base,
	}, nil
}

// NewResolver creates the view resolver and its template cache. It returns
// an error if the configured loader backend is not supported.
func NewResolver(c *Config, registry *view.Registry) (*view.Resolver, error) {
	cacheSize := c.Cache.Templates
	if cacheSize < 1 {
		cacheSize = DefaultTemplateCacheSize
	}

	cache, err := loader.NewLRUTemplateCache(cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize template cache")
	}
	metrics.TemplateCacheSize(func() int64 {
		return int64(cache.Len())
	})

	maxSize := DefaultMaxTemplateSize
	if c.Cache.MaxTemplateSize != 0 {
		maxSize = c.Cache.MaxTemplateSize
	}

	resolver, err := view.NewResolver(&c.View, registry, loader.Options{
		MaxSize: maxSize,
		Cache:   cache,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize view resolver")
	}
	return resolver, nil
}

// Start is blocking and long-running
func (s *Server) Start() error {
	if s.config.Datadog.Address != "" {
		if err := datadog.StartEmitter(s.base, s.config.Datadog); err != nil {
			return err
		}
	}
	return s.base.Start()
}
