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

// Package loader turns a template file and a data map into rendered text.
//
// A Loader is bound to a single view. It remembers the data of previous
// renders (unless told not to) and either returns the rendered text or
// appends it to the Response shared by the current request.
package loader

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/slaxweb/view/metrics"
)

// OutputMode controls whether rendered text is returned to the caller or
// appended to the Response. The zero value is Output.
type OutputMode int

const (
	Output OutputMode = iota
	Return
)

func (m OutputMode) String() string {
	if m == Return {
		return "return"
	}
	return "output"
}

// CacheMode controls whether the data passed to a render is merged into the
// data retained from previous renders. The zero value is CacheVars.
type CacheMode int

const (
	CacheVars CacheMode = iota
	NoCacheVars
)

func (m CacheMode) String() string {
	if m == NoCacheVars {
		return "no_cache_vars"
	}
	return "cache_vars"
}

// Markup is rendered text that backends emit without escaping. Views use it
// for the output of sub-views and for the main view inside a layout.
type Markup string

// Response is the sink that collects the output of all views rendered for
// one request.
type Response interface {
	Content() string
	SetContent(content string)
}

// Loader renders a single template file.
type Loader interface {
	// SetTemplateDir sets the directory containing template files. The
	// stored value always ends with exactly one path separator.
	SetTemplateDir(dir string)

	// SetTemplate sets the name of the template file, relative to the
	// template directory.
	SetTemplate(name string)

	// Render executes the template with data. See OutputMode and CacheMode
	// for the meaning of the modes. If the template file does not exist,
	// Render returns a *TemplateNotFound error.
	Render(data map[string]any, out OutputMode, cache CacheMode) (string, error)
}

// engine executes a resolved template file.
type engine interface {
	execute(dir, name string, data map[string]any) (string, error)
}

// fileLoader implements Loader on top of an engine. The engine is shared
// between all loaders created by the same Factory; everything else belongs
// to one loader.
type fileLoader struct {
	backend string
	engine  engine
	ext     string
	maxSize datasize.ByteSize

	response Response
	logger   zerolog.Logger

	dir      string
	template string
	cached   map[string]any
}

func (l *fileLoader) SetTemplateDir(dir string) {
	l.dir = strings.TrimRight(dir, string(filepath.Separator)) + string(filepath.Separator)
}

func (l *fileLoader) SetTemplate(name string) {
	l.template = name
}

// TemplateDir returns the normalized template directory.
func (l *fileLoader) TemplateDir() string {
	return l.dir
}

func (l *fileLoader) Render(data map[string]any, out OutputMode, cache CacheMode) (string, error) {
	start := time.Now()

	if cache == CacheVars {
		if l.cached == nil {
			l.cached = make(map[string]any, len(data))
		}
		for k, v := range data {
			l.cached[k] = v
		}
		data = l.cached
	}

	name := l.templateName()
	if err := l.checkTemplate(name); err != nil {
		if IsTemplateNotFound(err) {
			metrics.TemplateNotFound(l.backend)
		}
		return "", err
	}

	rendered, err := l.engine.execute(l.dir, name, data)
	if err != nil {
		return "", errors.Wrapf(err, "failed to render template %s", l.dir+name)
	}
	metrics.RenderTimer(l.backend).UpdateSince(start)

	l.logger.Debug().
		Str("template", l.dir+name).
		Str("backend", l.backend).
		Stringer("output_mode", out).
		Stringer("cache_mode", cache).
		Int("size", len(rendered)).
		Msg("Rendered template")

	if out == Return {
		return rendered, nil
	}
	if l.response == nil {
		return "", errors.New("output mode requires a response")
	}
	l.response.SetContent(l.response.Content() + rendered)
	return "", nil
}

// templateName returns the template name with the loader's default
// extension when the name does not carry one.
func (l *fileLoader) templateName() string {
	if l.ext == "" || path.Ext(l.template) != "" {
		return l.template
	}
	return l.template + l.ext
}

func (l *fileLoader) checkTemplate(name string) error {
	full := l.dir + name
	if l.template == "" {
		return &TemplateNotFound{Path: full}
	}

	fi, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return &TemplateNotFound{Path: full}
		}
		return errors.Wrapf(err, "failed to stat template %s", full)
	}
	if fi.IsDir() {
		return &TemplateNotFound{Path: full}
	}
	if l.maxSize > 0 && fi.Size() > int64(l.maxSize.Bytes()) {
		return errors.Errorf("template %s is %s, larger than the limit of %s", full, datasize.ByteSize(fi.Size()).HR(), l.maxSize.HR())
	}
	return nil
}
