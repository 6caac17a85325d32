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

package view

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/slaxweb/view/loader"
)

const (
	// NamespaceSeparator separates the parts of a qualified view type name.
	NamespaceSeparator = "."
)

// UnknownView is returned when no view type is registered under a name.
type UnknownView struct {
	Name string
}

func (e *UnknownView) Error() string {
	return fmt.Sprintf("no view registered as %q", e.Name)
}

// IsUnknownView returns true if the cause of err is an UnknownView error.
func IsUnknownView(err error) bool {
	_, ok := errors.Cause(err).(*UnknownView)
	return ok
}

// QualifiedName joins a namespace and a logical view name. Slashes in the
// logical name become namespace separators.
func QualifiedName(namespace, name string) string {
	name = strings.ReplaceAll(strings.Trim(name, "/"), "/", NamespaceSeparator)
	namespace = strings.TrimRight(namespace, NamespaceSeparator)
	if namespace == "" {
		return name
	}
	return namespace + NamespaceSeparator + name
}

// SimpleName returns the last part of a qualified view type name.
func SimpleName(qualified string) string {
	return qualified[strings.LastIndex(qualified, NamespaceSeparator)+1:]
}

// Constructor creates an application view around base. Views usually embed
// base; the resolver attaches layouts to base after construction.
type Constructor func(base *Base) View

// Registry maps qualified type names to view constructors. Views are
// registered at startup and the registry is shared by all requests.
type Registry struct {
	mu    sync.RWMutex
	views map[string]Constructor
}

func NewRegistry() *Registry {
	return &Registry{views: make(map[string]Constructor)}
}

// Register adds a view type. Registering a name twice replaces the
// earlier constructor.
func (r *Registry) Register(name string, c Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[name] = c
}

func (r *Registry) Lookup(name string) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.views[name]
	return c, ok
}

// Names returns the sorted names of all registered views.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.views))
	for name := range r.views {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type scopeKey struct {
	name      string
	template  bool
	useLayout bool
}

// Scope holds the state of one request: the response shared by all views,
// the request logger, and the views resolved so far. A Scope must not be
// reused across requests.
type Scope struct {
	response loader.Response
	logger   zerolog.Logger
	views    map[scopeKey]View
}

func NewScope(resp loader.Response, logger zerolog.Logger) *Scope {
	return &Scope{
		response: resp,
		logger:   logger,
		views:    make(map[scopeKey]View),
	}
}

func (s *Scope) Response() loader.Response {
	return s.response
}

func (s *Scope) Logger() zerolog.Logger {
	return s.logger
}

// Resolver creates views from registered types.
type Resolver struct {
	config   *Config
	registry *Registry
	loaders  *loader.Factory
}

// NewResolver creates a resolver for cfg. Loader options are completed from
// cfg; if cfg names an unknown loader backend, NewResolver returns an
// *loader.UnsupportedLoaderBackend error.
func NewResolver(cfg *Config, registry *Registry, opts loader.Options) (*Resolver, error) {
	if cfg.Extension != "" {
		opts.Extension = cfg.Extension
	}

	loaders, err := loader.NewFactory(cfg.Loader, opts)
	if err != nil {
		return nil, err
	}

	return &Resolver{
		config:   cfg,
		registry: registry,
		loaders:  loaders,
	}, nil
}

func (r *Resolver) Config() *Config {
	return r.config
}

// Backend returns the name of the loader backend used by resolved views.
func (r *Resolver) Backend() string {
	return r.loaders.Backend()
}

// Resolve returns the view registered under the logical name, creating it
// on first use within the scope. Views are cached per name and useLayout.
//
// If the view implements Initializer, Init is called with args. If
// useLayout is true and the configuration names a default layout, the
// layout is resolved without a layout of its own and attached to the view.
func (r *Resolver) Resolve(scope *Scope, name string, useLayout bool, args ...any) (View, error) {
	key := scopeKey{name: name, useLayout: useLayout}
	if v, ok := scope.views[key]; ok {
		return v, nil
	}

	typeName := QualifiedName(r.config.ClassNamespace, name)
	ctor, ok := r.registry.Lookup(typeName)
	if !ok {
		return nil, &UnknownView{Name: typeName}
	}

	base := r.newBase(scope, WithTypeName(typeName))
	v := ctor(base)
	if v == nil {
		return nil, errors.Errorf("constructor for view %s returned nil", typeName)
	}

	if init, ok := v.(Initializer); ok {
		if err := init.Init(args...); err != nil {
			return nil, errors.Wrapf(err, "failed to initialize view %s", typeName)
		}
	}

	if useLayout && r.config.DefaultLayout != "" {
		layout, err := r.Resolve(scope, r.config.DefaultLayout, false)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to resolve layout for view %s", typeName)
		}
		base.SetLayout(layout)
	}

	scope.logger.Debug().
		Str("view", typeName).
		Bool("layout", useLayout).
		Msg("Resolved view")

	scope.views[key] = v
	return v, nil
}

// ResolveTemplate returns a view bound directly to a template, without a
// registered view type. If useLayout is true, the default layout is
// resolved as a registered view if one exists and as a template otherwise.
func (r *Resolver) ResolveTemplate(scope *Scope, template string, useLayout bool) (View, error) {
	key := scopeKey{name: template, template: true, useLayout: useLayout}
	if v, ok := scope.views[key]; ok {
		return v, nil
	}

	base := r.newBase(scope, WithTemplate(template))

	if layoutName := r.config.DefaultLayout; useLayout && layoutName != "" {
		var layout View
		var err error
		if _, ok := r.registry.Lookup(QualifiedName(r.config.ClassNamespace, layoutName)); ok {
			layout, err = r.Resolve(scope, layoutName, false)
		} else {
			layout, err = r.ResolveTemplate(scope, layoutName, false)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to resolve layout for template %s", template)
		}
		base.SetLayout(layout)
	}

	scope.views[key] = base
	return base, nil
}

func (r *Resolver) newBase(scope *Scope, opts ...Option) *Base {
	opts = append([]Option{WithLogger(scope.logger)}, opts...)
	return NewBase(r.config, r.loaders.NewLoader(scope.response, scope.logger), scope.response, opts...)
}
