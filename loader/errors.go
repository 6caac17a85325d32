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
	"fmt"

	"github.com/pkg/errors"
)

// TemplateNotFound is returned when the resolved template file does not
// exist at render time.
type TemplateNotFound struct {
	Path string
}

func (e *TemplateNotFound) Error() string {
	return fmt.Sprintf("requested template file (%s) was not found", e.Path)
}

// UnsupportedLoaderBackend is returned when configuration selects a loader
// backend that does not exist.
type UnsupportedLoaderBackend struct {
	Name string
}

func (e *UnsupportedLoaderBackend) Error() string {
	return fmt.Sprintf("unsupported template loader backend %q, allowed values: %v", e.Name, Backends())
}

// IsTemplateNotFound returns true if the cause of err is a TemplateNotFound
// error.
func IsTemplateNotFound(err error) bool {
	_, ok := errors.Cause(err).(*TemplateNotFound)
	return ok
}

// IsUnsupportedLoaderBackend returns true if the cause of err is an
// UnsupportedLoaderBackend error.
func IsUnsupportedLoaderBackend(err error) bool {
	_, ok := errors.Cause(err).(*UnsupportedLoaderBackend)
	return ok
}
