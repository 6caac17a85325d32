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

package loader

import (
	html "html/template"
	"sort"
	"strings"
	text "text/template"

	"github.com/c2h5oh/datasize"
	"github.com/rs/zerolog"
)

const (
	BackendHTML   = "html"
	BackendText   = "text"
	BackendPongo2 = "pongo2"

	DefaultBackend = BackendHTML
)

var defaultExtensions = map[string]string{
	BackendHTML:   ".html.tmpl",
	BackendText:   ".tmpl",
	BackendPongo2: ".tpl",
}

// Backends returns the names of all supported loader backends.
func Backends() []string {
	names := make([]string, 0, len(defaultExtensions))
	for name := range defaultExtensions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type Options struct {
	// Extension is appended to template names that have no extension. If
	// empty, the backend's default extension is used.
	Extension string

	// MaxSize is the largest template file the loader will render. Zero
	// means no limit.
	MaxSize datasize.ByteSize

	// Cache stores compiled Go template trees. If nil, templates are
	// parsed on every render. The pongo2 backend always keeps compiled
	// templates in its own per-directory set and ignores Cache. All
	// backends recompile a template when it or a template it extends
	// changes on disk.
	Cache TemplateCache
}

// Factory creates loaders for a single backend. It is created once at
// startup; the loaders it creates are short-lived and belong to one view.
type Factory struct {
	backend string
	engine  engine
	ext     string
	maxSize datasize.ByteSize
}

// NewFactory returns a factory for the named backend. Names are case
// insensitive and an empty name selects the default backend. Unknown names
// return an *UnsupportedLoaderBackend error.
func NewFactory(backend string, opts Options) (*Factory, error) {
	name := strings.ToLower(strings.TrimSpace(backend))
	if name == "" {
		name = DefaultBackend
	}

	var e engine
	switch name {
	case BackendHTML:
		e = newGoEngine[*html.Template](name, htmlFactory, htmlMarkup, nil, opts.Cache)
	case BackendText:
		e = newGoEngine[*text.Template](name, textFactory, textMarkup, textPrepare, opts.Cache)
	case BackendPongo2:
		e = newPongo2Engine()
	default:
		return nil, &UnsupportedLoaderBackend{Name: backend}
	}

	ext := opts.Extension
	if ext == "" {
		ext = defaultExtensions[name]
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	return &Factory{
		backend: name,
		engine:  e,
		ext:     ext,
		maxSize: opts.MaxSize,
	}, nil
}

// Backend returns the normalized name of the factory's backend.
func (f *Factory) Backend() string {
	return f.backend
}

// Extension returns the extension appended to template names without one.
func (f *Factory) Extension() string {
	return f.ext
}

// NewLoader returns a new loader that appends output to resp and logs to
// logger. The loader has no template directory or template set.
func (f *Factory) NewLoader(resp Response, logger zerolog.Logger) Loader {
	return &fileLoader{
		backend:  f.backend,
		engine:   f.engine,
		ext:      f.ext,
		maxSize:  f.maxSize,
		response: resp,
		logger:   logger,
	}
}
