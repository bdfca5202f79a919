package server

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		supplied string
		want     struct {
			echoed bool
		}
	}{
		{
			name:     "generates an id when none supplied",
			supplied: "",
			want: struct {
				echoed bool
			}{
				echoed: false,
			},
		},
		{
			name:     "keeps the client supplied id",
			supplied: "client-id-123",
			want: struct {
				echoed bool
			}{
				echoed: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			router := gin.New()
			router.Use(RequestID())
			router.GET("/ping", func(ctx *gin.Context) {
				ctx.String(http.StatusOK, "pong")
			})

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.supplied != "" {
				req.Header.Set(requestIDHeader, tt.supplied)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			got := w.Header().Get(requestIDHeader)
			assert.NotEmpty(t, got)
			if tt.want.echoed {
				assert.Equal(t, tt.supplied, got)
			}
		})
	}
}

func TestGzipResponseCompress(t *testing.T) {
	gin.SetMode(gin.TestMode)
	payload := strings.Repeat("task board ", 64)

	router := gin.New()
	router.Use(GzipResponseCompress())
	router.GET("/data", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, payload)
	})

	t.Run("compresses when the client accepts gzip", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/data", nil)
		req.Header.Set("Accept-Encoding", "gzip")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

		gr, err := gzip.NewReader(w.Body)
		require.NoError(t, err)
		defer gr.Close()
		decompressed, err := io.ReadAll(gr)
		require.NoError(t, err)
		assert.Equal(t, payload, string(decompressed))
	})

	t.Run("passes through without the header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/data", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Content-Encoding"))
		assert.Equal(t, payload, w.Body.String())
	})
}

func TestGzipRequestDecompress(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GzipRequestDecompress())
	router.POST("/echo", func(ctx *gin.Context) {
		body, err := io.ReadAll(ctx.Request.Body)
		if err != nil {
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.String(http.StatusOK, string(body))
	})

	t.Run("inflates a gzip body", func(t *testing.T) {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		_, err := gw.Write([]byte(`{"title":"Fix bug"}`))
		require.NoError(t, err)
		require.NoError(t, gw.Close())

		req := httptest.NewRequest(http.MethodPost, "/echo", &buf)
		req.Header.Set("Content-Encoding", "gzip")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `{"title":"Fix bug"}`, w.Body.String())
	})

	t.Run("rejects a corrupt gzip body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("definitely not gzip"))
		req.Header.Set("Content-Encoding", "gzip")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
