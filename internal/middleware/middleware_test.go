package middleware_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/bitfantasy/nimo-pos/internal/middleware"
	"github.com/bitfantasy/nimo-pos/internal/pos/testutil"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func setupAuthRouter() *gin.Engine {
	r := testutil.SetupRouter()
	api := testutil.AuthGroup(r, "/api")
	api.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id"), "name": c.GetString("user_name")})
	})
	api.GET("/managers", middleware.RequireRole("manager"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestJWTAuth_ValidToken(t *testing.T) {
	r := setupAuthRouter()
	token := testutil.GenerateTestToken("u-1", "Wendy", []string{"waiter"})

	w := testutil.DoRequest(r, "GET", "/api/whoami", nil, token)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	if resp["user_id"] != "u-1" || resp["name"] != "Wendy" {
		t.Errorf("unexpected claims in context: %v", resp)
	}
}

func TestJWTAuth_Rejects(t *testing.T) {
	r := setupAuthRouter()

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": "u-1",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	expiredToken, _ := expired.SignedString([]byte(testutil.JWTSecret))

	wrongKey := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid": "u-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	wrongKeyToken, _ := wrongKey.SignedString([]byte("another-secret"))

	cases := []struct {
		name     string
		token    string
		wantCode float64
	}{
		{"missing", "", 40100},
		{"garbage", "not-a-jwt", 40102},
		{"expired", expiredToken, 40102},
		{"wrong key", wrongKeyToken, 40102},
	}
	for _, tc := range cases {
		w := testutil.DoRequest(r, "GET", "/api/whoami", nil, tc.token)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", tc.name, w.Code)
			continue
		}
		if code := testutil.ParseResponse(w)["code"]; code != tc.wantCode {
			t.Errorf("%s: expected code %v, got %v", tc.name, tc.wantCode, code)
		}
	}
}

func TestRequireRole(t *testing.T) {
	r := setupAuthRouter()

	cases := []struct {
		roles []string
		want  int
	}{
		{[]string{"manager"}, http.StatusOK},
		{[]string{"admin"}, http.StatusOK},
		{[]string{"waiter", "manager"}, http.StatusOK},
		{[]string{"waiter"}, http.StatusForbidden},
		{nil, http.StatusForbidden},
	}
	for _, tc := range cases {
		token := testutil.GenerateTestToken("u-1", "Test", tc.roles)
		w := testutil.DoRequest(r, "GET", "/api/managers", nil, token)
		if w.Code != tc.want {
			t.Errorf("roles %v: expected %d, got %d", tc.roles, tc.want, w.Code)
		}
	}
}

func TestRequireRole_NoAuth(t *testing.T) {
	r := testutil.SetupRouter()
	r.GET("/open", middleware.RequireRole("manager"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := testutil.DoRequest(r, "GET", "/open", nil, "")
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 without auth middleware, got %d", w.Code)
	}
}

func TestRequestID(t *testing.T) {
	r := testutil.SetupRouter()
	r.Use(middleware.RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	w := testutil.DoRequest(r, "GET", "/ping", nil, "")
	id := w.Header().Get("X-Request-ID")
	if id == "" || id != w.Body.String() {
		t.Errorf("expected generated request id echoed, header %q body %q", id, w.Body.String())
	}
}
