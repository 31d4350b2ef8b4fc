package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binstash/binstash/pkg/binstash"
	"github.com/binstash/binstash/pkg/binstash/api"
	repomemory "github.com/binstash/binstash/pkg/binstash/repo/memory"
	memorystorage "github.com/binstash/binstash/pkg/binstash/storage/memory"
)

func setupRouter(t *testing.T) http.Handler {
	t.Helper()

	svc, err := binstash.New(
		binstash.WithCatalog(repomemory.New()),
		binstash.WithBlobStore(memorystorage.New()),
	)
	require.NoError(t, err)

	return api.NewRouter(svc)
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func uploadFile(t *testing.T, router http.Handler, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartUpload(t, "file", filename, content)
	req := httptest.NewRequest(http.MethodPost, "/v1/file", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeAsset(t *testing.T, body *bytes.Buffer) api.AssetResponse {
	t.Helper()

	var resp api.AssetResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestUploadAsset(t *testing.T) {
	router := setupRouter(t)

	rec := uploadFile(t, router, "a.txt", []byte("hello"))
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeAsset(t, rec.Body)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "a.txt", resp.FileName)
	assert.True(t, strings.HasSuffix(resp.URL, "a.txt"), "url %q should end in the generated key", resp.URL)
	assert.True(t, strings.HasPrefix(resp.URL, "memory/"))
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), resp.UploadDate)
}

func TestUploadAssetValidation(t *testing.T) {
	router := setupRouter(t)

	t.Run("missing file field", func(t *testing.T) {
		body, contentType := multipartUpload(t, "other", "a.txt", []byte("hello"))
		req := httptest.NewRequest(http.MethodPost, "/v1/file", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not multipart at all", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/file", strings.NewReader("raw"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetAsset(t *testing.T) {
	router := setupRouter(t)

	uploaded := decodeAsset(t, uploadFile(t, router, "a.txt", []byte("hello")).Body)

	t.Run("existing asset", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/file/1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeAsset(t, rec.Body)
		assert.Equal(t, uploaded, resp)
	})

	t.Run("unknown id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/file/999", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)

		var resp api.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "asset not found", resp.Error)
	})

	t.Run("non-numeric id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/file/abc", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteAsset(t *testing.T) {
	router := setupRouter(t)

	uploadFile(t, router, "a.txt", []byte("hello"))

	t.Run("existing asset", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/v1/file/1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())

		// Subsequent reads must miss.
		req = httptest.NewRequest(http.MethodGet, "/v1/file/1", nil)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/v1/file/999", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDownloadAsset(t *testing.T) {
	router := setupRouter(t)

	uploadFile(t, router, "a.txt", []byte("hello"))

	req := httptest.NewRequest(http.MethodGet, "/v1/file/1/download", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `"a.txt"`)
}

func TestGetDownloadURL(t *testing.T) {
	router := setupRouter(t)

	uploaded := decodeAsset(t, uploadFile(t, router, "a.txt", []byte("hello")).Body)

	req := httptest.NewRequest(http.MethodGet, "/v1/file/1/url", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.DownloadURLResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	// The memory backend has no presigner and answers with the locator.
	assert.Equal(t, uploaded.URL, resp.URL)

	req = httptest.NewRequest(http.MethodGet, "/v1/file/999/url", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMalformedJSONRejected(t *testing.T) {
	router := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/file", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", rec.Header().Get("Pragma"))
}

func TestOversizedJSONRejected(t *testing.T) {
	router := setupRouter(t)

	// Valid JSON, but past the buffering cap: a single 2 MiB string.
	body := `"` + strings.Repeat("a", 2<<20) + `"`
	req := httptest.NewRequest(http.MethodPost, "/v1/file", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", rec.Header().Get("Pragma"))
}
