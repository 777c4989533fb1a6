package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-labs/portfolio-backend/internal/metrics"
)

type memRepo struct {
	mu   sync.Mutex
	msgs []Message
}

func (m *memRepo) Create(_ context.Context, msg *Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.CreatedAt = time.Now()
	m.msgs = append(m.msgs, *msg)
	return nil
}

func (m *memRepo) List(_ context.Context, unreadOnly bool) ([]Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Message
	for _, msg := range m.msgs {
		if unreadOnly && msg.Read {
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

func (m *memRepo) MarkRead(_ context.Context, id string, read bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.msgs {
		if m.msgs[i].ID == id {
			m.msgs[i].Read = read
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.msgs {
		if m.msgs[i].ID == id {
			m.msgs = append(m.msgs[:i], m.msgs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func newTestRouter(repo Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	pass := func(c *gin.Context) { c.Next() }
	NewHandler(NewService(repo)).Register(r.Group("/api/v1"), pass, pass)
	return r
}

func call(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestMarkRead_BodyHandling(t *testing.T) {
	repo := &memRepo{msgs: []Message{{ID: "8b4f6c1e-58e2-4c52-9a51-0f3d1f1f2a10", Name: "Ada"}}}
	r := newTestRouter(repo)
	path := "/api/v1/contact/" + repo.msgs[0].ID + "/read"

	// chunked request with an empty body, ContentLength unknown
	req := httptest.NewRequest(http.MethodPatch, path, nil)
	req.Body = io.NopCloser(strings.NewReader(""))
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.True(t, repo.msgs[0].Read)

	req = httptest.NewRequest(http.MethodPatch, path, strings.NewReader(`{"read":`))
	req.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.True(t, repo.msgs[0].Read, "rejected body leaves state alone")
}

func TestSubmitAndInbox(t *testing.T) {
	metrics.Reset()
	t.Cleanup(metrics.Reset)
	repo := &memRepo{}
	r := newTestRouter(repo)

	rr := call(r, http.MethodPost, "/api/v1/contact", map[string]string{
		"name": " Ada ", "email": "Ada@Example.com", "message": "Loved the robot project.",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.Len(t, repo.msgs, 1)
	assert.Equal(t, "Ada", repo.msgs[0].Name)
	assert.Equal(t, "ada@example.com", repo.msgs[0].Email)
	assert.Equal(t, int64(1), metrics.Get().ContactMessages)

	id := repo.msgs[0].ID
	rr = call(r, http.MethodPatch, "/api/v1/contact/"+id+"/read", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, repo.msgs[0].Read)

	rr = call(r, http.MethodGet, "/api/v1/contact?unread=true", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Messages []Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Empty(t, resp.Messages)

	rr = call(r, http.MethodPatch, "/api/v1/contact/"+id+"/read", map[string]bool{"read": false})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, repo.msgs[0].Read)

	rr = call(r, http.MethodDelete, "/api/v1/contact/"+id, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = call(r, http.MethodDelete, "/api/v1/contact/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSubmitValidation(t *testing.T) {
	r := newTestRouter(&memRepo{})

	cases := []map[string]string{
		{"email": "a@b.co", "message": "hi"},
		{"name": "A", "email": "not-an-email", "message": "hi"},
		{"name": "A", "email": "a@b.co"},
		{"name": "   ", "email": "a@b.co", "message": "hi"},
		{"name": "A", "email": "a@b.co", "message": strings.Repeat("x", 5001)},
	}
	for _, body := range cases {
		rr := call(r, http.MethodPost, "/api/v1/contact", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
	}

	rr := call(r, http.MethodGet, "/api/v1/contact?unread=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRepo_ListUnread(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepo(db)

	mock.ExpectQuery(`SELECT id, name, email, subject, message, is_read, created_at FROM contact_messages WHERE NOT is_read ORDER BY created_at DESC, id ASC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "subject", "message", "is_read", "created_at"}).
			AddRow("m1", "Ada", "ada@example.com", "", "hello", false, time.Now()))

	items, err := repo.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Ada", items[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_CreateAndTransientFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepo(db)

	mock.ExpectQuery(`INSERT INTO contact_messages`).
		WithArgs("m1", "Ada", "ada@example.com", "", "hello").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	require.NoError(t, repo.Create(context.Background(), &Message{ID: "m1", Name: "Ada", Email: "ada@example.com", Message: "hello"}))

	mock.ExpectExec(`UPDATE contact_messages SET is_read`).WillReturnError(&pq.Error{Code: "57P01"})
	_, err = repo.MarkRead(context.Background(), "m1", true)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}
