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

	"github.com/slaxweb/view/loader"
	"github.com/slaxweb/view/server/pages"
	"github.com/slaxweb/view/version"
)

type Index struct {
	Base
}

func (h *Index) ServeHTTP(w http.ResponseWriter, r *http.Request) error {
	scope, resp := h.NewScope(r)
	names := h.ViewNames()

	nav, err := h.Resolver.Resolve(scope, pages.NavView, false, names)
	if err != nil {
		return errors.Wrap(err, "failed to resolve navigation")
	}

	v, err := h.Resolver.Resolve(scope, pages.IndexView, true, version.GetVersion(), names, nav)
	if err != nil {
		return errors.Wrap(err, "failed to resolve index")
	}

	if _, ok := v.Render(nil, loader.Output, loader.CacheVars); !ok {
		return errors.New("failed to render index")
	}
	return resp.Flush(w)
}
