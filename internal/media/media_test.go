package media

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-labs/portfolio-backend/internal/storage/objectstore"
)

type memStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memStore) Put(_ context.Context, key string, body io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	m.types[key] = contentType
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[key]; !ok {
		return objectstore.ErrObjectNotFound
	}
	delete(m.objects, key)
	return nil
}

func (m *memStore) URL(key string) string { return "https://cdn.example.com/" + key }

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartBody(t *testing.T, field, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func setup(t *testing.T, maxBytes int64) (*gin.Engine, *memStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := newMemStore()
	r := gin.New()
	NewHandler(NewService(store, maxBytes)).Register(r.Group("/api/v1/uploads"))
	return r, store
}

func upload(r http.Handler, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads/images", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestUploadAndDelete(t *testing.T) {
	r, store := setup(t, 1<<20)
	data := pngBytes(t)

	body, ct := multipartBody(t, "file", "avatar.gif", data)
	rr := upload(r, body, ct)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp struct {
		Key         string `json:"key"`
		URL         string `json:"url"`
		ContentType string `json:"contentType"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.Key, "images/"))
	assert.True(t, strings.HasSuffix(resp.Key, ".png"), "extension follows sniffed type, not the filename")
	assert.Equal(t, "image/png", resp.ContentType)
	assert.Equal(t, "https://cdn.example.com/"+resp.Key, resp.URL)
	assert.Equal(t, data, store.objects[resp.Key], "sniffed bytes are not lost")

	name := strings.TrimPrefix(resp.Key, "images/")
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/uploads/images/"+name, nil)
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/v1/uploads/images/"+name, nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/v1/uploads/images/secret.txt", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUploadRejections(t *testing.T) {
	r, store := setup(t, 256)

	body, ct := multipartBody(t, "file", "notes.png", []byte("<svg xmlns='http://www.w3.org/2000/svg'></svg>"))
	rr := upload(r, body, ct)
	assert.Equal(t, http.StatusUnsupportedMediaType, rr.Code)

	big := append(pngBytes(t), bytes.Repeat([]byte{0}, 512)...)
	body, ct = multipartBody(t, "file", "big.png", big)
	rr = upload(r, body, ct)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)

	body, ct = multipartBody(t, "avatar", "a.png", pngBytes(t))
	rr = upload(r, body, ct)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	assert.Empty(t, store.objects)
}
