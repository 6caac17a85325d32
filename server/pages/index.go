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

package pages

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/slaxweb/view/loader"
	"github.com/slaxweb/view/version"
	"github.com/slaxweb/view/view"
)

// Index is the landing page. It is optionally initialized with the server
// version, the names of the registered views, and a navigation sub-view.
// Without a version argument, the build version is shown.
type Index struct {
	*view.Base

	version string
	views   []string
}

func (v *Index) Init(args ...any) error {
	for i, arg := range args {
		switch arg := arg.(type) {
		case string:
			v.version = arg
		case []string:
			v.views = arg
		case view.View:
			v.AddSubView(strings.ToLower(NavView), arg)
		default:
			return errors.Errorf("unexpected argument %d of type %T", i, arg)
		}
	}
	if v.version == "" {
		v.version = version.GetVersion()
	}
	if v.views == nil {
		v.views = []string{}
	}
	return nil
}

func (v *Index) Render(data map[string]any, out loader.OutputMode, cache loader.CacheMode) (string, bool) {
	if data == nil {
		data = make(map[string]any)
	}
	data["version"] = v.version
	data["views"] = v.views
	data["title"] = fmt.Sprintf("view %s", v.version)
	return v.Base.Render(data, out, cache)
}
