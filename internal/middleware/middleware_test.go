package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-fees-ledger/internal/models"
	appErrors "github.com/noah-isme/sma-fees-ledger/pkg/errors"
)

type stubValidator map[string]*models.JWTClaims

func (s stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
}

func newGuardedRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	tokens := stubValidator{
		"admin-token":   {Username: "admin", Role: models.RoleAdmin},
		"cashier-token": {Username: "cashier", Role: models.RoleCashier},
	}
	group := r.Group("/", JWT(tokens))
	group.GET("/any", func(c *gin.Context) { c.String(http.StatusOK, string(RoleFromContext(c))) })
	group.GET("/admin", RequireRoles(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestJWTAndRBAC(t *testing.T) {
	r := newGuardedRouter()
	cases := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"missing header", "/any", "", http.StatusUnauthorized},
		{"bad scheme", "/any", "Basic abc", http.StatusUnauthorized},
		{"unknown token", "/any", "Bearer nope", http.StatusUnauthorized},
		{"cashier any", "/any", "Bearer cashier-token", http.StatusOK},
		{"cashier admin", "/admin", "Bearer cashier-token", http.StatusForbidden},
		{"admin admin", "/admin", "bearer admin-token", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestRoleFromContextDefaultsToNone(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, models.RoleNone, RoleFromContext(c))
}

type recordingMetrics struct {
	path   string
	status int
}

func (r *recordingMetrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	r.path = path
	r.status = status
}

func TestMetricsUsesRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := &recordingMetrics{}
	r := gin.New()
	r.Use(Metrics(rec))
	r.GET("/students/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/students/42", nil))

	assert.Equal(t, "/students/:id", rec.path)
	assert.Equal(t, http.StatusTeapot, rec.status)
}
