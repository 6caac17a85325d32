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

package loader

import (
	"bytes"
	"fmt"
	html "html/template"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	text "text/template"
	"text/template/parse"
	"time"

	"github.com/bluekeyes/templatetree"
	"github.com/pkg/errors"
)

func templateFuncs() map[string]any {
	return map[string]any{
		"upper": strings.ToUpper,
		"lower": strings.ToLower,
		"join":  strings.Join,
		"default": func(def, v any) any {
			if v == nil || v == "" {
				return def
			}
			return v
		},
	}
}

func htmlFactory(name string) templatetree.Template[*html.Template] {
	return html.New(name).Funcs(html.FuncMap(templateFuncs()))
}

func textFactory(name string) templatetree.Template[*text.Template] {
	funcs := text.FuncMap(templateFuncs())
	funcs[textValueFunc] = textValue
	return text.New(name).Funcs(funcs)
}

// textValueFunc is appended to every printing action of text templates so
// that missing keys render empty, as they do in html/template.
const textValueFunc = "_view_text_value"

func textValue(v any) string {
	if v == nil {
		return ""
	}
	_, stringer := v.(fmt.Stringer)
	_, isErr := v.(error)
	if rv := reflect.ValueOf(v); !stringer && !isErr && rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		v = rv.Elem().Interface()
	}
	return fmt.Sprint(v)
}

func textPrepare(tree templatetree.Tree[*text.Template]) {
	for _, t := range tree {
		tmpl, ok := t.(*text.Template)
		if !ok {
			continue
		}
		for _, nt := range tmpl.Templates() {
			if nt.Tree != nil {
				appendTextValue(nt.Tree.Root)
			}
		}
	}
}

func appendTextValue(node parse.Node) {
	switch n := node.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, c := range n.Nodes {
			appendTextValue(c)
		}
	case *parse.ActionNode:
		if len(n.Pipe.Decl) > 0 || endsWithTextValue(n.Pipe) {
			return
		}
		ident := parse.NewIdentifier(textValueFunc).SetPos(n.Pos)
		n.Pipe.Cmds = append(n.Pipe.Cmds, &parse.CommandNode{
			NodeType: parse.NodeCommand,
			Pos:      n.Pos,
			Args:     []parse.Node{ident},
		})
	case *parse.IfNode:
		appendTextValue(n.List)
		appendTextValue(n.ElseList)
	case *parse.RangeNode:
		appendTextValue(n.List)
		appendTextValue(n.ElseList)
	case *parse.WithNode:
		appendTextValue(n.List)
		appendTextValue(n.ElseList)
	}
}

func endsWithTextValue(pipe *parse.PipeNode) bool {
	if len(pipe.Cmds) == 0 {
		return false
	}
	last := pipe.Cmds[len(pipe.Cmds)-1]
	if len(last.Args) != 1 {
		return false
	}
	ident, ok := last.Args[0].(*parse.IdentifierNode)
	return ok && ident.Ident == textValueFunc
}

func htmlMarkup(m Markup) any { return html.HTML(m) }
func textMarkup(m Markup) any { return string(m) }

// goEngine executes Go templates loaded as a templatetree. A template may
// extend a parent in the same directory by starting with
//
//	{{/* templatetree:extends parent.html.tmpl */}}
type goEngine[T templatetree.StdTemplate] struct {
	backend string
	factory templatetree.TemplateFactory[T]
	markup  func(Markup) any
	prepare func(templatetree.Tree[T])
	cache   TemplateCache
}

func newGoEngine[T templatetree.StdTemplate](backend string, f templatetree.TemplateFactory[T], markup func(Markup) any, prepare func(templatetree.Tree[T]), cache TemplateCache) *goEngine[T] {
	return &goEngine[T]{
		backend: backend,
		factory: f,
		markup:  markup,
		prepare: prepare,
		cache:   cache,
	}
}

func (e *goEngine[T]) execute(dir, name string, data map[string]any) (string, error) {
	name = filepath.ToSlash(name)

	tree, err := e.load(dir, name)
	if err != nil {
		return "", err
	}

	ctx := make(map[string]any, len(data))
	for k, v := range data {
		if m, ok := v.(Markup); ok {
			ctx[k] = e.markup(m)
			continue
		}
		ctx[k] = v
	}

	var buf bytes.Buffer
	if err := tree.ExecuteTemplate(&buf, name, ctx); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type compiledTree[T templatetree.StdTemplate] struct {
	tree    templatetree.Tree[T]
	modTime map[string]time.Time
}

// fresh returns true if no file in the tree changed since it was parsed.
func (c *compiledTree[T]) fresh(dir string) bool {
	for name, t := range c.modTime {
		fi, err := os.Stat(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil || !fi.ModTime().Equal(t) {
			return false
		}
	}
	return true
}

func (e *goEngine[T]) load(dir, name string) (templatetree.Tree[T], error) {
	key := fmt.Sprintf("%s:%s%s", e.backend, dir, name)
	if e.cache != nil {
		if v, ok := e.cache.Get(key); ok {
			if c, ok := v.(*compiledTree[T]); ok && c.fresh(dir) {
				return c.tree, nil
			}
		}
	}

	files, modTime, err := readTemplateChain(dir, name)
	if err != nil {
		return nil, err
	}

	tree, err := templatetree.ParseFiles(files, e.factory)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse templates")
	}
	if e.prepare != nil {
		e.prepare(tree)
	}

	if e.cache != nil {
		e.cache.Add(key, &compiledTree[T]{tree: tree, modTime: modTime})
	}
	return tree, nil
}

// readTemplateChain reads the named template and every template it extends.
func readTemplateChain(dir, name string) (map[string]string, map[string]time.Time, error) {
	files := make(map[string]string)
	modTime := make(map[string]time.Time)

	for next := name; next != ""; {
		if _, ok := files[next]; ok {
			// cycles are reported by templatetree
			break
		}

		path := filepath.Join(dir, filepath.FromSlash(next))
		fi, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil, &TemplateNotFound{Path: path}
			}
			return nil, nil, errors.Wrapf(err, "failed to stat template %s", path)
		}

		b, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "failed to read template %s", path)
		}

		files[next] = string(b)
		modTime[next] = fi.ModTime()
		next = extendsHeader(files[next])
	}

	return files, modTime, nil
}

// extendsHeader returns the parent named in the templatetree header comment
// on the first line of content, if any.
func extendsHeader(content string) string {
	prefix := "{{/* " + templatetree.CommentTagExtends + " "
	if !strings.HasPrefix(content, prefix) {
		return ""
	}

	idx := strings.Index(content[len(prefix):], " */}}")
	if idx < 0 {
		return ""
	}
	return content[len(prefix) : len(prefix)+idx]
}
