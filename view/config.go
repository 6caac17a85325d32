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
	"os"
	"strconv"

	"github.com/slaxweb/view/loader"
)

const (
	DefaultBaseDir = "templates"
)

// Config contains the options read by views and the resolver. It is
// read-only once the resolver is created.
type Config struct {
	// BaseDir is the directory containing all template files.
	BaseDir string `yaml:"base_dir" json:"baseDir"`

	// AutoTplName sets the template name of views without one to the
	// simple name of the view type.
	AutoTplName bool `yaml:"auto_tpl_name" json:"autoTplName"`

	// Loader is the name of the template loader backend.
	Loader string `yaml:"loader" json:"loader"`

	// ClassNamespace is prefixed to logical view names to find registered
	// view types.
	ClassNamespace string `yaml:"class_namespace" json:"classNamespace"`

	// DefaultLayout is the logical name of the layout attached to resolved
	// views. Empty means no default layout.
	DefaultLayout string `yaml:"default_layout" json:"defaultLayout"`

	// Extension overrides the backend's default template file extension.
	Extension string `yaml:"extension" json:"extension"`
}

func (c *Config) FillDefaults() {
	if c.BaseDir == "" {
		c.BaseDir = DefaultBaseDir
	}
	if c.Loader == "" {
		c.Loader = loader.DefaultBackend
	}
}

// SetValuesFromEnv sets values in the configuration from corresponding
// environment variables, if they exist. The optional prefix is added to the
// start of the environment variable names.
func (c *Config) SetValuesFromEnv(prefix string) {
	if v, ok := os.LookupEnv(prefix + "BASE_DIR"); ok {
		c.BaseDir = v
	}
	if v, ok := os.LookupEnv(prefix + "AUTO_TPL_NAME"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.AutoTplName = b
		}
	}
	if v, ok := os.LookupEnv(prefix + "LOADER"); ok {
		c.Loader = v
	}
	if v, ok := os.LookupEnv(prefix + "CLASS_NAMESPACE"); ok {
		c.ClassNamespace = v
	}
	if v, ok := os.LookupEnv(prefix + "DEFAULT_LAYOUT"); ok {
		c.DefaultLayout = v
	}
	if v, ok := os.LookupEnv(prefix + "EXTENSION"); ok {
		c.Extension = v
	}
}
