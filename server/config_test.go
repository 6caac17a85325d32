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
package server

import (
	"testing"

	"github.com/c2h5oh/datasize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slaxweb/view/loader"
	"github.com/slaxweb/view/server/pages"
	"github.com/slaxweb/view/view"
)

func TestParseConfig(t *testing.T) {
	t.Run("full", func(t *testing.T) {
		c, err := ParseConfig([]byte(`
server:
  address: 127.0.0.1
  port: 8080
logging:
  level: debug
  text: true
view:
  base_dir: views
  auto_tpl_name: true
  loader: pongo2
  class_namespace: app.views
  default_layout: Layout
  extension: .twig
cache:
  templates: 10
  max_template_size: 2KB
files:
  static: assets
`))
		require.NoError(t, err)

		assert.Equal(t, 8080, c.Server.Port)
		assert.Equal(t, "debug", c.Logging.Level)
		assert.True(t, c.Logging.Text)
		assert.Equal(t, view.Config{
			BaseDir:        "views",
			AutoTplName:    true,
			Loader:         "pongo2",
			ClassNamespace: "app.views",
			DefaultLayout:  "Layout",
			Extension:      ".twig",
		}, c.View)
		assert.Equal(t, 10, c.Cache.Templates)
		assert.Equal(t, 2*datasize.KB, c.Cache.MaxTemplateSize)
		assert.Equal(t, "assets", c.Files.Static)
	})

	t.Run("defaults", func(t *testing.T) {
		c, err := ParseConfig([]byte(`{}`))
		require.NoError(t, err)

		assert.Equal(t, view.DefaultBaseDir, c.View.BaseDir)
		assert.Equal(t, loader.DefaultBackend, c.View.Loader)
		assert.False(t, c.View.AutoTplName)
		assert.Equal(t, pages.DefaultNamespace, c.View.ClassNamespace)
	})

	t.Run("unknownKey", func(t *testing.T) {
		_, err := ParseConfig([]byte("view:\n  layout: Layout\n"))
		assert.Error(t, err)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("SLAXVIEW_VIEW_LOADER", "text")
		t.Setenv("SLAXVIEW_VIEW_AUTO_TPL_NAME", "true")
		t.Setenv("SLAXVIEW_LOG_LEVEL", "warn")
		t.Setenv("SLAXVIEW_CACHE_MAX_TEMPLATE_SIZE", "4MB")

		c, err := ParseConfig([]byte("view:\n  loader: html\n"))
		require.NoError(t, err)

		assert.Equal(t, "text", c.View.Loader)
		assert.True(t, c.View.AutoTplName)
		assert.Equal(t, "warn", c.Logging.Level)
		assert.Equal(t, 4*datasize.MB, c.Cache.MaxTemplateSize)
	})

	t.Run("environmentPrefix", func(t *testing.T) {
		t.Setenv("SLAXVIEW_ENV_PREFIX", "APP_")
		t.Setenv("APP_VIEW_BASE_DIR", "other")

		c, err := ParseConfig([]byte(`{}`))
		require.NoError(t, err)
		assert.Equal(t, "other", c.View.BaseDir)
	})
}

func TestConfigFillDefaults(t *testing.T) {
	c := &Config{}
	c.FillDefaults()
	assert.Equal(t, pages.DefaultNamespace, c.View.ClassNamespace)

	c = &Config{View: view.Config{ClassNamespace: "app.views"}}
	c.FillDefaults()
	assert.Equal(t, "app.views", c.View.ClassNamespace)
}

func TestNewResolver(t *testing.T) {
	t.Run("unsupportedBackend", func(t *testing.T) {
		c := &Config{View: view.Config{BaseDir: "templates", Loader: "twig"}}

		_, err := NewResolver(c, view.NewRegistry())
		require.Error(t, err)
		assert.True(t, loader.IsUnsupportedLoaderBackend(err))
	})

	t.Run("defaults", func(t *testing.T) {
		c := &Config{View: view.Config{BaseDir: "templates", Loader: "pongo2"}}

		r, err := NewResolver(c, view.NewRegistry())
		require.NoError(t, err)
		assert.Equal(t, loader.BackendPongo2, r.Backend())
	})
}
