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
	"github.com/slaxweb/view/loader"
	"github.com/slaxweb/view/view"
)

type Link struct {
	Name string
	Path string
}

// Nav renders links to the registered views. It is used as a sub-view.
type Nav struct {
	*view.Base

	links []Link
}

func (v *Nav) Init(args ...any) error {
	for _, arg := range args {
		if names, ok := arg.([]string); ok {
			v.SetViews(names)
		}
	}
	return nil
}

// SetViews replaces the links with one link per logical view name.
func (v *Nav) SetViews(names []string) {
	v.links = v.links[:0]
	for _, name := range names {
		v.links = append(v.links, Link{Name: name, Path: "/pages/" + name})
	}
}

func (v *Nav) Links() []Link {
	return v.links
}

func (v *Nav) Render(data map[string]any, out loader.OutputMode, cache loader.CacheMode) (string, bool) {
	if data == nil {
		data = make(map[string]any)
	}
	data["links"] = v.links
	return v.Base.Render(data, out, cache)
}
