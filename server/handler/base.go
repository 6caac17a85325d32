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

package handler

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/slaxweb/view/loader"
	"github.com/slaxweb/view/response"
	"github.com/slaxweb/view/view"
)

const (
	LogKeyView = "view"

	NotFoundTemplate = "NotFound"
)

type Base struct {
	Resolver *view.Resolver
	Registry *view.Registry
}

// NewScope creates the view scope for a request. Views resolved in the
// scope log with the request logger and write to the returned buffer.
func (b *Base) NewScope(r *http.Request) (*view.Scope, *response.Buffer) {
	resp := response.New()
	return view.NewScope(resp, *zerolog.Ctx(r.Context())), resp
}

// ViewNames returns the logical names of all registered views in the
// configured namespace.
func (b *Base) ViewNames() []string {
	ns := b.Resolver.Config().ClassNamespace
	if ns != "" {
		ns += view.NamespaceSeparator
	}

	var names []string
	for _, name := range b.Registry.Names() {
		if strings.HasPrefix(name, ns) {
			names = append(names, strings.TrimPrefix(name, ns))
		}
	}
	return names
}

// render404 writes a not found page. If the not found template cannot be
// rendered, it falls back to a plain text response.
func (b *Base) render404(w http.ResponseWriter, r *http.Request, name string) error {
	scope, resp := b.NewScope(r)
	resp.SetStatus(http.StatusNotFound)

	v, err := b.Resolver.ResolveTemplate(scope, NotFoundTemplate, true)
	if err == nil {
		if _, ok := v.Render(map[string]any{"name": name, "title": "Not Found"}, loader.Output, loader.NoCacheVars); ok {
			return resp.Flush(w)
		}
	}

	http.Error(w, "view not found: "+name, http.StatusNotFound)
	return nil
}
