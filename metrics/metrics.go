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

package metrics

import (
	"github.com/rcrowley/go-metrics"
)

const (
	MetricsKeyRender           = "view.render"
	MetricsKeyTemplateNotFound = "view.template_not_found"
	MetricsKeyFailedRender     = "view.failed_render"
	MetricsKeyTemplateCache    = "view.template_cache.size"
)

var (
	registry metrics.Registry = metrics.NewRegistry()
)

func SetRegistry(r metrics.Registry) {
	registry = r
}

// RenderTimer returns the timer tracking successful renders for a loader
// backend.
func RenderTimer(backend string) metrics.Timer {
	return metrics.GetOrRegisterTimer(MetricsKeyRender+"["+backend+"]", registry)
}

// TemplateNotFound counts renders of template files that do not exist.
func TemplateNotFound(backend string) {
	metrics.GetOrRegisterCounter(MetricsKeyTemplateNotFound+"["+backend+"]", registry).Inc(1)
}

// FailedRender counts failed view renders. A failure is counted once, by the
// view whose own template or output failed, not by the views that contain it.
func FailedRender() {
	metrics.GetOrRegisterCounter(MetricsKeyFailedRender, registry).Inc(1)
}

// TemplateCacheSize - registers a gauge with the registry that monitors the number of compiled templates in the cache
func TemplateCacheSize(sizeFn func() int64) metrics.Gauge {
	return metrics.NewRegisteredFunctionalGauge(MetricsKeyTemplateCache, registry, sizeFn)
}
