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
	"os"
	"strconv"

	"github.com/c2h5oh/datasize"
	"github.com/palantir/go-baseapp/baseapp"
	"github.com/palantir/go-baseapp/baseapp/datadog"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/slaxweb/view/server/handler"
	"github.com/slaxweb/view/server/pages"
	"github.com/slaxweb/view/view"
)

const (
	DefaultEnvPrefix = "SLAXVIEW_"
)

type Config struct {
	Server  baseapp.HTTPConfig  `yaml:"server"`
	Logging LoggingConfig       `yaml:"logging"`
	View    view.Config         `yaml:"view"`
	Cache   CachingConfig       `yaml:"cache"`
	Files   handler.FilesConfig `yaml:"files"`
	Datadog datadog.Config      `yaml:"datadog"`
}

type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	Text  bool   `yaml:"text" json:"text"`
}

func (c *LoggingConfig) SetValuesFromEnv(prefix string) {
	if v, ok := os.LookupEnv(prefix + "LOG_LEVEL"); ok {
		c.Level = v
	}
	if v, ok := os.LookupEnv(prefix + "LOG_TEXT"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Text = b
		}
	}
}

type CachingConfig struct {
	// Templates is the number of compiled templates kept in memory.
	Templates int `yaml:"templates"`

	// MaxTemplateSize is the largest template file that will be rendered.
	MaxTemplateSize datasize.ByteSize `yaml:"max_template_size"`
}

func (c *CachingConfig) SetValuesFromEnv(prefix string) {
	if v, ok := os.LookupEnv(prefix + "CACHE_TEMPLATES"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Templates = n
		}
	}
	if v, ok := os.LookupEnv(prefix + "CACHE_MAX_TEMPLATE_SIZE"); ok {
		var size datasize.ByteSize
		if err := size.UnmarshalText([]byte(v)); err == nil {
			c.MaxTemplateSize = size
		}
	}
}

func ParseConfig(bytes []byte) (*Config, error) {
	var c Config
	if err := yaml.UnmarshalStrict(bytes, &c); err != nil {
		return nil, errors.Wrapf(err, "failed unmarshalling yaml")
	}

	envPrefix := DefaultEnvPrefix
	if v, ok := os.LookupEnv("SLAXVIEW_ENV_PREFIX"); ok {
		envPrefix = v
	}

	c.Server.SetValuesFromEnv(envPrefix)
	c.Logging.SetValuesFromEnv(envPrefix)
	c.Cache.SetValuesFromEnv(envPrefix)
	c.View.SetValuesFromEnv(envPrefix + "VIEW_")

	if v, ok := os.LookupEnv(envPrefix + "FILES_STATIC"); ok {
		c.Files.Static = v
	}

	c.FillDefaults()
	return &c, nil
}

// FillDefaults sets the view defaults and, when no namespace is configured,
// the namespace the server registers its pages under.
func (c *Config) FillDefaults() {
	c.View.FillDefaults()
	if c.View.ClassNamespace == "" {
		c.View.ClassNamespace = pages.DefaultNamespace
	}
}
