package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCookie = "workspace"
	sessionKey    = "session"
	sessionMaxAge = 7 * 24 * time.Hour
)

// SessionData binds a browser to its workspace
type SessionData struct {
	WorkspaceID string    `json:"workspace_id"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// SessionMiddleware reads the signed workspace cookie. Browsers without a
// valid cookie get a new workspace id. The cookie expiry slides forward on
// every request.
func SessionMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionData := getSessionFromCookie(c, secret)
		if sessionData == nil {
			sessionData = &SessionData{WorkspaceID: uuid.NewString()}
		}
		sessionData.ExpiresAt = time.Now().Add(sessionMaxAge)

		c.Set(sessionKey, sessionData)

		// Headers must be written before the handler renders the body.
		if err := setSessionCookie(c, secret, sessionData); err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Next()
	}
}

// getSessionFromCookie extracts and validates session data from cookie
func getSessionFromCookie(c *gin.Context, secret string) *SessionData {
	cookie, err := c.Cookie(sessionCookie)
	if err != nil {
		return nil
	}

	// Split cookie value (signature.data)
	parts := strings.Split(cookie, ".")
	if len(parts) != 2 {
		return nil
	}

	signature, data := parts[0], parts[1]
	if !verifySignature(secret, data, signature) {
		return nil
	}

	decodedData, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		return nil
	}

	var sessionData SessionData
	if err := json.Unmarshal(decodedData, &sessionData); err != nil {
		return nil
	}

	if time.Now().After(sessionData.ExpiresAt) {
		return nil
	}
	if _, err := uuid.Parse(sessionData.WorkspaceID); err != nil {
		return nil
	}

	return &sessionData
}

func setSessionCookie(c *gin.Context, secret string, sessionData *SessionData) error {
	data, err := json.Marshal(sessionData)
	if err != nil {
		return err
	}

	encodedData := base64.URLEncoding.EncodeToString(data)
	signature := createSignature(secret, encodedData)

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, signature+"."+encodedData, int(sessionMaxAge.Seconds()), "/", "", false, true)
	return nil
}

// createSignature creates HMAC signature for data
func createSignature(secret, data string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(data))
	return base64.URLEncoding.EncodeToString(h.Sum(nil))
}

// verifySignature verifies HMAC signature
func verifySignature(secret, data, signature string) bool {
	expectedSignature := createSignature(secret, data)
	return hmac.Equal([]byte(signature), []byte(expectedSignature))
}

// GetSession retrieves session data from context
func GetSession(c *gin.Context) *SessionData {
	session, exists := c.Get(sessionKey)
	if !exists {
		return nil
	}

	if sessionData, ok := session.(*SessionData); ok {
		return sessionData
	}

	return nil
}

// WorkspaceID returns the workspace bound to the request, or ""
func WorkspaceID(c *gin.Context) string {
	if s := GetSession(c); s != nil {
		return s.WorkspaceID
	}
	return ""
}
