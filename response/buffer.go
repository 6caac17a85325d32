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

// Package response provides the sink that collects rendered views for a
// single request.
package response

import (
	"io"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
)

const (
	DefaultContentType = "text/html; charset=utf-8"
)

// Buffer accumulates rendered content. Nothing is written to the client
// until Flush is called; a request that never calls Flush produces no body.
//
// A Buffer belongs to one request and is not safe for concurrent use.
type Buffer struct {
	content     string
	status      int
	contentType string
	flushed     bool
}

func New() *Buffer {
	return &Buffer{
		status:      http.StatusOK,
		contentType: DefaultContentType,
	}
}

func (b *Buffer) Content() string {
	return b.content
}

func (b *Buffer) SetContent(content string) {
	b.content = content
}

// SetStatus sets the status code written by Flush.
func (b *Buffer) SetStatus(status int) {
	b.status = status
}

// SetContentType sets the Content-Type header written by Flush.
func (b *Buffer) SetContentType(contentType string) {
	b.contentType = contentType
}

// Flushed returns true if Flush was called.
func (b *Buffer) Flushed() bool {
	return b.flushed
}

// Flush writes the headers, status, and accumulated content to w. It may
// only be called once.
func (b *Buffer) Flush(w http.ResponseWriter) error {
	if b.flushed {
		return errors.New("response was already flushed")
	}
	b.flushed = true

	status := b.status
	if status == 0 {
		status = http.StatusOK
	}
	contentType := b.contentType
	if contentType == "" {
		contentType = DefaultContentType
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(b.content)))
	w.WriteHeader(status)

	_, err := io.WriteString(w, b.content)
	return errors.Wrap(err, "failed to write response")
}
