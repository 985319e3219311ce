package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/facegaze-attendance-api/internal/models"
	appErrors "github.com/noah-isme/facegaze-attendance-api/pkg/errors"
)

type resolverStub struct {
	identities map[string]*models.Identity
	err        error
}

func (r resolverStub) ResolveCaller(ctx context.Context, token string) (*models.Identity, error) {
	if r.err != nil {
		return nil, r.err
	}
	if identity, ok := r.identities[token]; ok {
		return identity, nil
	}
	return nil, appErrors.Clone(appErrors.ErrUnauthorized, "Unauthorized: Please log in.")
}

const header = "X-Session-ID"

var validResolver = resolverStub{identities: map[string]*models.Identity{
	"good": {SessionID: "sid", LectureID: "CS101_L1"},
}}

func serve(t *testing.T, mw gin.HandlerFunc, token string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	var lecture string
	router.GET("/scoped", mw, func(c *gin.Context) {
		lecture = LectureFrom(c)
		c.Status(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/scoped", nil)
	if token != "" {
		req.Header.Set(header, token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec, lecture
}

func TestSessionMiddleware(t *testing.T) {
	rec, lecture := serve(t, Session(validResolver, header), "good")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "CS101_L1", lecture)

	rec, _ = serve(t, Session(validResolver, header), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Unauthorized: Please log in.", body["message"])

	rec, _ = serve(t, Session(validResolver, header), "stale")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLectureScope(t *testing.T) {
	cases := []struct {
		name           string
		token          string
		defaultLecture string
		requireSession bool
		status         int
		lecture        string
	}{
		{"session wins over default", "good", "DEFAULT", false, http.StatusOK, "CS101_L1"},
		{"default when no session", "", "DEFAULT", false, http.StatusOK, "DEFAULT"},
		{"default when session invalid", "stale", "DEFAULT", false, http.StatusOK, "DEFAULT"},
		{"no session no default", "", "", false, http.StatusUnauthorized, ""},
		{"session required ignores default", "", "DEFAULT", true, http.StatusUnauthorized, ""},
		{"session required with session", "good", "DEFAULT", true, http.StatusOK, "CS101_L1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, lecture := serve(t, LectureScope(validResolver, header, tc.defaultLecture, tc.requireSession), tc.token)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.lecture, lecture)
		})
	}
}

func TestLectureScopeStoreOutageIsNotMaskedByDefault(t *testing.T) {
	resolver := resolverStub{err: appErrors.Clone(appErrors.ErrServiceUnavailable, "")}
	rec, _ := serve(t, LectureScope(resolver, header, "DEFAULT", false), "good")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

type observerStub struct {
	method, path string
	status       int
}

func (o *observerStub) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	o.method, o.path, o.status = method, path, status
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	observer := &observerStub{}
	router := gin.New()
	router.Use(Metrics(observer))
	router.GET("/api/attendance/:lectureId", func(c *gin.Context) { c.Status(http.StatusOK) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/attendance/CS101_L1", nil))
	assert.Equal(t, "/api/attendance/:lectureId", observer.path)
	assert.Equal(t, http.StatusOK, observer.status)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, "unmatched", observer.path)
	assert.Equal(t, http.StatusNotFound, observer.status)
}
