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
	lru "github.com/hashicorp/golang-lru"
)

// TemplateCache stores compiled templates at the application level. Entries
// are validated against the template files before use, so they only expire
// to keep the cache from growing without bound.
type TemplateCache interface {
	Get(key string) (any, bool)
	Add(key string, value any)
	Len() int
}

// LRUTemplateCache is a TemplateCache that evicts the least recently used
// templates.
type LRUTemplateCache struct {
	templates *lru.Cache
}

func NewLRUTemplateCache(size int) (*LRUTemplateCache, error) {
	templates, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &LRUTemplateCache{templates: templates}, nil
}

func (c *LRUTemplateCache) Get(key string) (any, bool) {
	return c.templates.Get(key)
}

func (c *LRUTemplateCache) Add(key string, value any) {
	c.templates.Add(key, value)
}

func (c *LRUTemplateCache) Len() int {
	return c.templates.Len()
}
