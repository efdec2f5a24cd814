package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadRequest(t *testing.T, contentType string, payload []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="file"; filename="cover.png"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadReturnsDataURL(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	RegisterUploadRoutes(g, nil)

	payload := []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a}
	w := httptest.NewRecorder()
	g.ServeHTTP(w, uploadRequest(t, "image/png", payload))
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "image/png", resp["mime"])
	require.True(t, strings.HasPrefix(resp["data_url"], "data:image/png;base64,"))

	// round-trip: the payload survives the data URL encoding
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(resp["data_url"], "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestUploadDefaultsMIME(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	RegisterUploadRoutes(g, nil)

	w := httptest.NewRecorder()
	g.ServeHTTP(w, uploadRequest(t, "", []byte("plain bytes")))
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "application/octet-stream", resp["mime"])
}

func TestUploadMissingFilePart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := gin.New()
	RegisterUploadRoutes(g, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/upload", strings.NewReader(""))
	g.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
