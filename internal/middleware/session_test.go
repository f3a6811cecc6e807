package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alimgiray/agrocontrol/pkg/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newSessionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(SessionMiddleware(testSecret))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"workspace_id": WorkspaceID(c)})
	})
	return router
}

func signedCookie(t *testing.T, secret string, data SessionData) string {
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	encoded := base64.URLEncoding.EncodeToString(raw)
	return createSignature(secret, encoded) + "." + encoded
}

// decodeSetCookie returns the session stored in the response's Set-Cookie header
func decodeSetCookie(t *testing.T, w *httptest.ResponseRecorder) SessionData {
	header := w.Header().Get("Set-Cookie")
	require.Contains(t, header, sessionCookie+"=")

	value := strings.TrimPrefix(strings.Split(header, ";")[0], sessionCookie+"=")
	value, err := url.QueryUnescape(value)
	require.NoError(t, err)

	parts := strings.Split(value, ".")
	require.Len(t, parts, 2)
	assert.True(t, verifySignature(testSecret, parts[1], parts[0]), "cookie signature should be valid")

	decoded, err := base64.URLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var data SessionData
	require.NoError(t, json.Unmarshal(decoded, &data))
	return data
}

func TestSessionIssuedWithoutCookie(t *testing.T) {
	router := newSessionRouter()

	req, _ := http.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	data := decodeSetCookie(t, w)
	_, err := uuid.Parse(data.WorkspaceID)
	assert.NoError(t, err)
	assert.Contains(t, w.Body.String(), data.WorkspaceID)
}

func TestSessionReusedAndExtended(t *testing.T) {
	router := newSessionRouter()
	id := uuid.NewString()
	cookie := signedCookie(t, testSecret, SessionData{WorkspaceID: id, ExpiresAt: time.Now().Add(time.Hour)})

	req, _ := http.NewRequest("GET", "/test", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: cookie})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	data := decodeSetCookie(t, w)
	assert.Equal(t, id, data.WorkspaceID)
	assert.True(t, data.ExpiresAt.After(time.Now().Add(24*time.Hour)), "expiry should slide forward")
}

func TestSessionRejectsTamperedCookies(t *testing.T) {
	id := uuid.NewString()

	testCases := []struct {
		name   string
		cookie string
	}{
		{name: "wrong secret", cookie: signedCookie(t, "other", SessionData{WorkspaceID: id, ExpiresAt: time.Now().Add(time.Hour)})},
		{name: "expired", cookie: signedCookie(t, testSecret, SessionData{WorkspaceID: id, ExpiresAt: time.Now().Add(-time.Minute)})},
		{name: "not a uuid", cookie: signedCookie(t, testSecret, SessionData{WorkspaceID: "abc", ExpiresAt: time.Now().Add(time.Hour)})},
		{name: "garbage", cookie: "no-dot-here"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := newSessionRouter()
			req, _ := http.NewRequest("GET", "/test", nil)
			req.AddCookie(&http.Cookie{Name: sessionCookie, Value: tc.cookie})
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			data := decodeSetCookie(t, w)
			assert.NotEqual(t, id, data.WorkspaceID, "a new workspace should be issued")
		})
	}
}

func TestRequestIDEchoedAndPropagated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/rid", func(c *gin.Context) {
		c.String(http.StatusOK, requestid.From(c.Request.Context()))
	})

	req, _ := http.NewRequest("GET", "/rid", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", w.Body.String())

	req, _ = http.NewRequest("GET", "/rid", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())
}
