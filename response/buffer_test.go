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
package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer(t *testing.T) {
	t.Run("appendContent", func(t *testing.T) {
		b := New()
		b.SetContent("Previous response")
		b.SetContent(b.Content() + "Rendered template")

		assert.Equal(t, "Previous responseRendered template", b.Content())
		assert.False(t, b.Flushed())
	})

	t.Run("flush", func(t *testing.T) {
		w := httptest.NewRecorder()

		b := New()
		b.SetContent("<p>hello</p>")
		require.NoError(t, b.Flush(w))

		assert.True(t, b.Flushed())
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, DefaultContentType, w.Header().Get("Content-Type"))
		assert.Equal(t, "12", w.Header().Get("Content-Length"))
		assert.Equal(t, "<p>hello</p>", w.Body.String())
	})

	t.Run("statusAndContentType", func(t *testing.T) {
		w := httptest.NewRecorder()

		b := New()
		b.SetStatus(http.StatusNotFound)
		b.SetContentType("text/plain")
		b.SetContent("missing")
		require.NoError(t, b.Flush(w))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "text/plain", w.Header().Get("Content-Type"))
		assert.Equal(t, "missing", w.Body.String())
	})

	t.Run("zeroValue", func(t *testing.T) {
		w := httptest.NewRecorder()

		var b Buffer
		require.NoError(t, b.Flush(w))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, DefaultContentType, w.Header().Get("Content-Type"))
		assert.Empty(t, w.Body.String())
	})

	t.Run("flushOnce", func(t *testing.T) {
		w := httptest.NewRecorder()

		b := New()
		b.SetContent("once")
		require.NoError(t, b.Flush(w))
		assert.Error(t, b.Flush(w))
		assert.Equal(t, "once", w.Body.String())
	})
}
