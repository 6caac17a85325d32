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
	"encoding/json"
	"net/http"

	"github.com/palantir/go-baseapp/baseapp"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"goji.io/pat"

	"github.com/slaxweb/view/loader"
	"github.com/slaxweb/view/server/apierror"
	"github.com/slaxweb/view/view"
)

const (
	layoutParam   = "layout"
	templateParam = "template"
)

type RenderResponse struct {
	Content string `json:"content"`
}

// Render renders a view in return mode and responds with the content as
// JSON. The request body is a JSON object used as the view data. The
// "layout" query parameter disables the default layout when false and the
// "template" query parameter renders a template without a registered view.
type Render struct {
	Base
}

func (h *Render) ServeHTTP(w http.ResponseWriter, r *http.Request) error {
	logger := zerolog.Ctx(r.Context())
	name := pat.Param(r, "name")

	var data map[string]any
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
			return apierror.WriteAPIError(w, http.StatusBadRequest, "invalid JSON body", err.Error())
		}
	}

	useLayout := !isFalse(r.URL.Query().Get(layoutParam))
	scope, _ := h.NewScope(r)

	var v view.View
	var err error
	if isTrue(r.URL.Query().Get(templateParam)) {
		v, err = h.Resolver.ResolveTemplate(scope, name, useLayout)
	} else {
		v, err = h.Resolver.Resolve(scope, name, useLayout)
	}
	if err != nil {
		if view.IsUnknownView(err) {
			return apierror.WriteAPIError(w, http.StatusNotFound, err.Error())
		}
		return errors.Wrapf(err, "failed to resolve view %s", name)
	}

	content, ok := v.Render(data, loader.Return, loader.NoCacheVars)
	if !ok {
		logger.Warn().Str(LogKeyView, name).Msg("View render failed")
		return apierror.WriteAPIError(w, http.StatusUnprocessableEntity, "failed to render view "+name)
	}

	baseapp.WriteJSON(w, http.StatusOK, RenderResponse{Content: content})
	return nil
}

func isTrue(v string) bool {
	return v == "1" || v == "true"
}

func isFalse(v string) bool {
	return v == "0" || v == "false"
}
