package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureSession(got *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = SessionID(r.Context())
	})
}

func TestSessionMiddleware_IssuesCookie(t *testing.T) {
	var id string
	w := httptest.NewRecorder()
	SessionMiddleware(captureSession(&id)).ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	_, err := uuid.Parse(id)
	require.NoError(t, err)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Equal(t, id, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestSessionMiddleware_ReusesCookie(t *testing.T) {
	existing := uuid.NewString()
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: existing})

	var id string
	w := httptest.NewRecorder()
	SessionMiddleware(captureSession(&id)).ServeHTTP(w, req)

	assert.Equal(t, existing, id)
	assert.Empty(t, w.Result().Cookies())
}

func TestSessionMiddleware_ReplacesMalformedCookie(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-uuid"})

	var id string
	w := httptest.NewRecorder()
	SessionMiddleware(captureSession(&id)).ServeHTTP(w, req)

	assert.NotEqual(t, "not-a-uuid", id)
	require.Len(t, w.Result().Cookies(), 1)
}

func TestSessionID_Missing(t *testing.T) {
	assert.Equal(t, "", SessionID(context.Background()))
}
