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

package view

import (
	"testing"

	"github.com/pkg/errors"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slaxweb/view/loader"
	"github.com/slaxweb/view/metrics"
	"github.com/slaxweb/view/response"
)

type loaderCall struct {
	template string
	data     map[string]any
	out      loader.OutputMode
	cache    loader.CacheMode
}

type recordingLoader struct {
	dir      string
	template string
	calls    []loaderCall

	rendered string
	err      error
}

func (l *recordingLoader) SetTemplateDir(dir string) { l.dir = dir }
func (l *recordingLoader) SetTemplate(name string)   { l.template = name }

func (l *recordingLoader) Render(data map[string]any, out loader.OutputMode, cache loader.CacheMode) (string, error) {
	l.calls = append(l.calls, loaderCall{template: l.template, data: data, out: out, cache: cache})
	if l.err != nil {
		return "", l.err
	}
	if out == loader.Return {
		return l.rendered, nil
	}
	return "", nil
}

type stubView struct {
	rendered string
	ok       bool
	calls    []loaderCall
}

func (v *stubView) Render(data map[string]any, out loader.OutputMode, cache loader.CacheMode) (string, bool) {
	v.calls = append(v.calls, loaderCall{data: data, out: out, cache: cache})
	return v.rendered, v.ok
}

func TestTemplateName(t *testing.T) {
	t.Run("autoTemplateName", func(t *testing.T) {
		ld := &recordingLoader{}
		b := NewBase(&Config{BaseDir: "viewDir", AutoTplName: true}, ld, nil, WithTypeName("app.views.BaseViewMock"))

		assert.Equal(t, "BaseViewMock", b.Template())
		assert.Equal(t, "viewDir", ld.dir)
	})

	t.Run("autoTemplateNameWithoutNamespace", func(t *testing.T) {
		b := NewBase(&Config{BaseDir: "viewDir", AutoTplName: true}, &recordingLoader{}, nil, WithTypeName("BaseViewMock"))
		assert.Equal(t, "BaseViewMock", b.Template())
	})

	t.Run("configDisallowsAutoTemplateName", func(t *testing.T) {
		b := NewBase(&Config{BaseDir: "viewDir", AutoTplName: false}, &recordingLoader{}, nil, WithTypeName("app.views.BaseViewMock"))
		assert.Equal(t, "", b.Template())
	})

	t.Run("templateNameAlreadySet", func(t *testing.T) {
		b := NewBase(
			&Config{BaseDir: "viewDir", AutoTplName: true},
			&recordingLoader{},
			nil,
			WithTypeName("app.views.BaseViewMock"),
			WithTemplate("PreSetTemplateName"),
		)
		assert.Equal(t, "PreSetTemplateName", b.Template())
	})
}

func TestRendering(t *testing.T) {
	ld := &recordingLoader{rendered: "Main view"}
	resp := response.New()
	resp.SetContent("Previous response")

	b := NewBase(&Config{BaseDir: "viewDir"}, ld, resp, WithTemplate("PreSetTemplateName"))

	sub := &stubView{rendered: "Sub view", ok: true}
	b.AddSubView("testSub", sub)

	layout := &stubView{rendered: "Rendered template", ok: true}
	b.SetLayout(layout)

	rendered, ok := b.Render(map[string]any{"foo": "bar"}, loader.Output, loader.CacheVars)
	require.True(t, ok)
	assert.Empty(t, rendered)

	require.Len(t, sub.calls, 1)
	assert.Equal(t, loader.Return, sub.calls[0].out)
	assert.Equal(t, loader.CacheVars, sub.calls[0].cache)
	assert.Equal(t, map[string]any{"foo": "bar"}, sub.calls[0].data)

	require.Len(t, ld.calls, 1)
	assert.Equal(t, "PreSetTemplateName", ld.calls[0].template)
	assert.Equal(t, loader.Return, ld.calls[0].out, "views with a layout render their own template in return mode")
	assert.Equal(t, loader.CacheVars, ld.calls[0].cache)
	assert.Equal(t, map[string]any{
		"foo":             "bar",
		"subview_testSub": loader.Markup("Sub view"),
	}, ld.calls[0].data)

	require.Len(t, layout.calls, 1)
	assert.Equal(t, loader.Return, layout.calls[0].out)
	assert.Equal(t, map[string]any{
		"foo":             "bar",
		"subview_testSub": loader.Markup("Sub view"),
		"mainView":        loader.Markup("Main view"),
	}, layout.calls[0].data)

	assert.Equal(t, "Previous responseRendered template", resp.Content())
}

func TestRenderReturn(t *testing.T) {
	t.Run("withoutLayout", func(t *testing.T) {
		ld := &recordingLoader{rendered: "Main view"}
		b := NewBase(&Config{BaseDir: "viewDir"}, ld, response.New(), WithTemplate("PreSetTemplateName"))

		rendered, ok := b.Render(map[string]any{}, loader.Return, loader.CacheVars)
		require.True(t, ok)
		assert.Equal(t, "Main view", rendered)

		require.Len(t, ld.calls, 1)
		assert.Equal(t, map[string]any{}, ld.calls[0].data)
		assert.Equal(t, loader.Return, ld.calls[0].out)
		assert.Equal(t, loader.CacheVars, ld.calls[0].cache)
	})

	t.Run("withLayout", func(t *testing.T) {
		ld := &recordingLoader{rendered: "Main view"}
		resp := response.New()
		b := NewBase(&Config{BaseDir: "viewDir"}, ld, resp, WithTemplate("PreSetTemplateName"))
		b.SetLayout(&stubView{rendered: "Rendered template", ok: true})

		rendered, ok := b.Render(nil, loader.Return, loader.NoCacheVars)
		require.True(t, ok)
		assert.Equal(t, "Rendered template", rendered)
		assert.Empty(t, resp.Content(), "return mode must not modify the response")
		assert.Equal(t, loader.NoCacheVars, ld.calls[0].cache)
	})
}

func TestRenderOutput(t *testing.T) {
	ld := &recordingLoader{}
	b := NewBase(&Config{BaseDir: "viewDir"}, ld, response.New(), WithTemplate("PreSetTemplateName"))

	rendered, ok := b.Render(map[string]any{"foo": "bar"}, loader.Output, loader.NoCacheVars)
	require.True(t, ok)
	assert.Empty(t, rendered)

	require.Len(t, ld.calls, 1)
	assert.Equal(t, loader.Output, ld.calls[0].out)
	assert.Equal(t, loader.NoCacheVars, ld.calls[0].cache)
}

func TestRenderFailures(t *testing.T) {
	t.Run("templateNotFound", func(t *testing.T) {
		ld := &recordingLoader{err: &loader.TemplateNotFound{Path: "viewDir/missing"}}
		layout := &stubView{rendered: "Rendered template", ok: true}
		resp := response.New()

		b := NewBase(&Config{BaseDir: "viewDir"}, ld, resp, WithTemplate("missing"))
		b.SetLayout(layout)

		rendered, ok := b.Render(map[string]any{"foo": "bar"}, loader.Output, loader.CacheVars)
		assert.False(t, ok)
		assert.Empty(t, rendered)
		assert.Empty(t, layout.calls, "layout must not render when the view fails")
		assert.Empty(t, resp.Content())
	})

	t.Run("subViewFails", func(t *testing.T) {
		ld := &recordingLoader{rendered: "Main view"}
		b := NewBase(&Config{BaseDir: "viewDir"}, ld, response.New(), WithTemplate("main"))
		b.AddSubView("broken", &stubView{ok: false})

		_, ok := b.Render(nil, loader.Return, loader.CacheVars)
		assert.False(t, ok)
		assert.Empty(t, ld.calls)
	})

	t.Run("layoutFails", func(t *testing.T) {
		ld := &recordingLoader{rendered: "Main view"}
		resp := response.New()
		b := NewBase(&Config{BaseDir: "viewDir"}, ld, resp, WithTemplate("main"))
		b.SetLayout(&stubView{ok: false})

		_, ok := b.Render(nil, loader.Output, loader.CacheVars)
		assert.False(t, ok)
		assert.Empty(t, resp.Content())
	})

	t.Run("layoutWithoutResponse", func(t *testing.T) {
		ld := &recordingLoader{rendered: "Main view"}
		b := NewBase(&Config{BaseDir: "viewDir"}, ld, nil, WithTemplate("main"))
		b.SetLayout(&stubView{rendered: "Rendered template", ok: true})

		var (
			rendered string
			ok       bool
		)
		require.NotPanics(t, func() {
			rendered, ok = b.Render(nil, loader.Output, loader.CacheVars)
		})
		assert.False(t, ok)
		assert.Empty(t, rendered)

		rendered, ok = b.Render(nil, loader.Return, loader.CacheVars)
		require.True(t, ok, "return mode does not need a response")
		assert.Equal(t, "Rendered template", rendered)
	})
}

func TestFailedRenderCount(t *testing.T) {
	failedRenders := func(t *testing.T) func() int64 {
		r := gometrics.NewRegistry()
		metrics.SetRegistry(r)
		t.Cleanup(func() { metrics.SetRegistry(gometrics.NewRegistry()) })

		return func() int64 {
			c, ok := r.Get(metrics.MetricsKeyFailedRender).(gometrics.Counter)
			if !ok {
				return 0
			}
			return c.Count()
		}
	}

	brokenBase := func(resp *response.Buffer) *Base {
		return NewBase(&Config{BaseDir: "viewDir"}, &recordingLoader{err: errors.New("boom")}, resp, WithTemplate("broken"))
	}

	t.Run("subView", func(t *testing.T) {
		count := failedRenders(t)
		resp := response.New()

		b := NewBase(&Config{BaseDir: "viewDir"}, &recordingLoader{rendered: "Main view"}, resp, WithTemplate("main"))
		b.AddSubView("inner", brokenBase(resp))
		b.SetLayout(NewBase(&Config{BaseDir: "viewDir"}, &recordingLoader{rendered: "layout"}, resp, WithTemplate("layout")))

		_, ok := b.Render(nil, loader.Output, loader.CacheVars)
		assert.False(t, ok)
		assert.Equal(t, int64(1), count())
	})

	t.Run("layout", func(t *testing.T) {
		count := failedRenders(t)
		resp := response.New()

		b := NewBase(&Config{BaseDir: "viewDir"}, &recordingLoader{rendered: "Main view"}, resp, WithTemplate("main"))
		b.SetLayout(brokenBase(resp))

		_, ok := b.Render(nil, loader.Output, loader.CacheVars)
		assert.False(t, ok)
		assert.Equal(t, int64(1), count())
	})

	t.Run("ownTemplate", func(t *testing.T) {
		count := failedRenders(t)

		_, ok := brokenBase(response.New()).Render(nil, loader.Return, loader.CacheVars)
		assert.False(t, ok)
		assert.Equal(t, int64(1), count())
	})
}

func TestSubViewOrder(t *testing.T) {
	ld := &recordingLoader{rendered: "Main view"}
	b := NewBase(&Config{BaseDir: "viewDir"}, ld, response.New(), WithTemplate("main"))

	var order []string
	for _, name := range []string{"header", "nav", "footer"} {
		name := name
		b.AddSubView(name, viewFunc(func(data map[string]any, out loader.OutputMode, cache loader.CacheMode) (string, bool) {
			order = append(order, name)
			return name, true
		}))
	}
	b.AddSubView("nav", viewFunc(func(data map[string]any, out loader.OutputMode, cache loader.CacheMode) (string, bool) {
		order = append(order, "nav2")
		return "nav2", true
	}))

	_, ok := b.Render(nil, loader.Return, loader.CacheVars)
	require.True(t, ok)

	assert.Equal(t, []string{"header", "nav2", "footer"}, order)
	assert.Equal(t, loader.Markup("nav2"), ld.calls[0].data["subview_nav"])
}

type viewFunc func(data map[string]any, out loader.OutputMode, cache loader.CacheMode) (string, bool)

func (f viewFunc) Render(data map[string]any, out loader.OutputMode, cache loader.CacheMode) (string, bool) {
	return f(data, out, cache)
}
