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

// Package pages contains the views served by the HTTP server.
package pages

import (
	"github.com/slaxweb/view/view"
)

const (
	DefaultNamespace = "slaxweb.pages"

	IndexView  = "Index"
	LayoutView = "Layout"
	NavView    = "Nav"
	HelloView  = "Hello"
)

// Register adds the server's views to registry under namespace. The
// resolver must use the same namespace to find them.
func Register(registry *view.Registry, namespace string) {

	registry.Register(view.QualifiedName(namespace, LayoutView), func(base *view.Base) view.View {
		return base
	})
	registry.Register(view.QualifiedName(namespace, HelloView), func(base *view.Base) view.View {
		return base
	})
	registry.Register(view.QualifiedName(namespace, NavView), func(base *view.Base) view.View {
		return &Nav{Base: base}
	})
	registry.Register(view.QualifiedName(namespace, IndexView), func(base *view.Base) view.View {
		return &Index{Base: base}
	})
}
