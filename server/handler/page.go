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

	"github.com/pkg/errors"
	"goji.io/pat"

	"github.com/slaxweb/view/loader"
	"github.com/slaxweb/view/view"
)

// Page renders any registered view with its layout. Query parameters are
// passed to the view as data; parameters with multiple values are passed
// as a slice.
type Page struct {
	Base
}

func (h *Page) ServeHTTP(w http.ResponseWriter, r *http.Request) error {
	name := pat.Param(r, "name")
	scope, resp := h.NewScope(r)

	v, err := h.Resolver.Resolve(scope, name, true)
	if err != nil {
		if view.IsUnknownView(err) {
			return h.render404(w, r, name)
		}
		return errors.Wrapf(err, "failed to resolve view %s", name)
	}

	if _, ok := v.Render(queryData(r), loader.Output, loader.CacheVars); !ok {
		return errors.Errorf("failed to render view %s", name)
	}
	return resp.Flush(w)
}

func queryData(r *http.Request) map[string]any {
	query := r.URL.Query()

	data := make(map[string]any, len(query))
	for k, values := range query {
		if len(values) == 1 {
			data[k] = values[0]
		} else {
			data[k] = values
		}
	}
	return data
}
