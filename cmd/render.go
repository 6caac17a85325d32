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
package cmd

import (
	"io"
	"strings"

	"github.com/palantir/go-baseapp/baseapp"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/slaxweb/view/loader"
	"github.com/slaxweb/view/response"
	"github.com/slaxweb/view/server"
	"github.com/slaxweb/view/server/pages"
	"github.com/slaxweb/view/view"
)

type renderOptions struct {
	Path     string
	Template bool
	NoLayout bool
}

var renderCmdConfig renderOptions

var RenderCmd = &cobra.Command{
	Use:   "render NAME [KEY=VALUE...]",
	Short: "Renders a view and prints the result.",
	Long: "Resolves a view, or a bare template with --template, renders it with the given data, " +
		"and prints the output. Data is passed as KEY=VALUE arguments.",
	Args: cobra.MinimumNArgs(1),

	RunE: renderCmd,
}

func renderCmd(cmd *cobra.Command, args []string) error {
	cfg, err := readServerConfig(renderCmdConfig.Path)
	if err != nil {
		return errors.Wrapf(err, "failed to read server config")
	}

	data, err := parseData(args[1:])
	if err != nil {
		return err
	}

	var logger zerolog.Logger
	if cfg.Logging.Text {
		logger = baseapp.NewLogger(baseapp.LoggingConfig{Level: cfg.Logging.Level}).
			Output(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()})
	} else {
		logger = baseapp.NewLogger(baseapp.LoggingConfig{Level: cfg.Logging.Level}).
			Output(cmd.ErrOrStderr())
	}

	return renderView(cmd.OutOrStdout(), cfg, logger, args[0], data, renderCmdConfig)
}

func renderView(w io.Writer, cfg *server.Config, logger zerolog.Logger, name string, data map[string]any, opts renderOptions) error {
	cfg.FillDefaults()

	registry := view.NewRegistry()
	pages.Register(registry, cfg.View.ClassNamespace)

	resolver, err := server.NewResolver(cfg, registry)
	if err != nil {
		return err
	}

	scope := view.NewScope(response.New(), logger)

	var v view.View
	if opts.Template {
		v, err = resolver.ResolveTemplate(scope, name, !opts.NoLayout)
	} else {
		v, err = resolver.Resolve(scope, name, !opts.NoLayout)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to resolve %s", name)
	}

	content, ok := v.Render(data, loader.Return, loader.CacheVars)
	if !ok {
		return errors.Errorf("failed to render %s", name)
	}

	_, err = io.WriteString(w, content)
	return errors.Wrap(err, "failed to write output")
}

// parseData converts KEY=VALUE arguments to view data. Repeated keys
// collect their values in a slice.
func parseData(args []string) (map[string]any, error) {
	data := make(map[string]any, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, errors.Errorf("invalid data argument %q, expected KEY=VALUE", arg)
		}

		switch existing := data[key].(type) {
		case nil:
			data[key] = value
		case string:
			data[key] = []string{existing, value}
		case []string:
			data[key] = append(existing, value)
		}
	}
	return data, nil
}

func init() {
	RootCmd.AddCommand(RenderCmd)

	RenderCmd.Flags().StringVarP(&renderCmdConfig.Path, "config", "c", DefaultConfigPath, "configuration file for the server")
	RenderCmd.Flags().BoolVar(&renderCmdConfig.Template, "template", false, "render a template instead of a registered view")
	RenderCmd.Flags().BoolVar(&renderCmdConfig.NoLayout, "no-layout", false, "do not wrap the output in the default layout")
}
