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
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/flosch/pongo2/v6"
	"github.com/pkg/errors"
)

// pongo2Engine executes Django/Twig-style templates. Each template
// directory gets its own template set so that extends and include tags
// resolve against that directory.
//
// pongo2 compiles a template once per set. The engine records the files
// read while compiling each template and drops the set's compiled
// templates when any of them changes, so edits are picked up like they
// are by the Go template backends.
type pongo2Engine struct {
	mu   sync.Mutex
	sets map[string]*pongo2Set
}

type pongo2Set struct {
	set    *pongo2.TemplateSet
	loader *trackingLoader

	// files maps compiled template names to the files they were read from
	files map[string]map[string]time.Time
}

func newPongo2Engine() *pongo2Engine {
	return &pongo2Engine{
		sets: make(map[string]*pongo2Set),
	}
}

func (e *pongo2Engine) set(dir string) (*pongo2Set, error) {
	if s, ok := e.sets[dir]; ok {
		return s, nil
	}

	fsLoader, err := pongo2.NewLocalFileSystemLoader(strings.TrimRight(dir, string(filepath.Separator)))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create pongo2 loader for %s", dir)
	}

	tl := &trackingLoader{TemplateLoader: fsLoader}
	s := &pongo2Set{
		set:    pongo2.NewSet("view:"+dir, tl),
		loader: tl,
		files:  make(map[string]map[string]time.Time),
	}
	e.sets[dir] = s
	return s, nil
}

func (e *pongo2Engine) template(dir, name string) (*pongo2.Template, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s, err := e.set(dir)
	if err != nil {
		return nil, err
	}

	files, compiled := s.files[name]
	if compiled && !unchanged(files) {
		s.set.CleanCache()
		s.files = make(map[string]map[string]time.Time)
		compiled = false
	}
	if compiled {
		return s.set.FromCache(name)
	}

	s.loader.record()
	tpl, err := s.set.FromCache(name)
	files = s.loader.stop()
	if err != nil {
		return nil, err
	}

	s.files[name] = files
	return tpl, nil
}

func (e *pongo2Engine) execute(dir, name string, data map[string]any) (string, error) {
	tpl, err := e.template(dir, filepath.ToSlash(name))
	if err != nil {
		return "", err
	}

	ctx := make(pongo2.Context, len(data))
	for k, v := range data {
		if m, ok := v.(Markup); ok {
			ctx[k] = pongo2.AsSafeValue(string(m))
			continue
		}
		ctx[k] = v
	}

	return tpl.Execute(ctx)
}

// trackingLoader records the modification time of every file read while
// recording is on.
type trackingLoader struct {
	pongo2.TemplateLoader

	mu    sync.Mutex
	files map[string]time.Time
}

func (l *trackingLoader) record() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.files = make(map[string]time.Time)
}

func (l *trackingLoader) stop() map[string]time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	files := l.files
	l.files = nil
	return files
}

func (l *trackingLoader) Get(path string) (io.Reader, error) {
	r, err := l.TemplateLoader.Get(path)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.files != nil {
		if fi, err := os.Stat(path); err == nil {
			l.files[path] = fi.ModTime()
		}
	}
	return r, nil
}

func unchanged(files map[string]time.Time) bool {
	for path, t := range files {
		fi, err := os.Stat(path)
		if err != nil || !fi.ModTime().Equal(t) {
			return false
		}
	}
	return true
}
