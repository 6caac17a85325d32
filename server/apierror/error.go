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
// Package apierror writes the JSON error responses of the render API.
package apierror

import (
	"net/http"
	"strings"

	"github.com/palantir/go-baseapp/baseapp"
)

type ErrorResponse struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
}

// WriteAPIError writes a JSON error with the given status code. Messages are
// joined with "; ". If no message is given, the status text is used. It
// always returns nil so handlers can return its result directly.
func WriteAPIError(w http.ResponseWriter, code int, message ...string) error {
	msg := strings.Join(message, "; ")
	if msg == "" {
		msg = http.StatusText(code)
	}
	baseapp.WriteJSON(w, code, ErrorResponse{Status: code, Error: msg})
	return nil
}
