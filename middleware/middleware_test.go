package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"contract-claims-api/models"
	"contract-claims-api/services"
	"contract-claims-api/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	dto "github.com/prometheus/client_model/go"
)

var testSecret = []byte("test-secret")

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUsers map[uint]*models.User

func (f fakeUsers) FindUser(_ context.Context, id uint) (*models.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, store.ErrNotFound
}

func usersOf(list ...*models.User) fakeUsers {
	f := fakeUsers{}
	for _, u := range list {
		f[u.ID] = u
	}
	return f
}

func lecturer() *models.User {
	return &models.User{ID: 7, Email: "wsb@gmail.com", Role: models.Role{ID: 1, Name: models.RoleLecturer}}
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, GetCaller(c))
	})
	return r
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired_ValidToken(t *testing.T) {
	token, err := GenerateToken(lecturer(), testSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	w := get(newEngine(AuthRequired(testSecret, usersOf(lecturer()))), token)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body)
	}
	var caller services.Caller
	if err := json.Unmarshal(w.Body.Bytes(), &caller); err != nil {
		t.Fatal(err)
	}
	if caller.UserID != 7 || caller.Role != models.RoleLecturer {
		t.Errorf("unexpected caller %+v", caller)
	}
}

func TestAuthRequired_Rejects(t *testing.T) {
	expired, _ := GenerateToken(lecturer(), testSecret, -time.Minute)
	otherKey, _ := GenerateToken(lecturer(), []byte("other"), time.Hour)
	none, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 7, Role: models.RoleHR}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)

	cases := map[string]string{
		"missing":   "",
		"garbage":   "not-a-jwt",
		"expired":   expired,
		"wrong key": otherKey,
		"alg none":  none,
	}
	r := newEngine(AuthRequired(testSecret, usersOf(lecturer())))
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if w := get(r, token); w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestRoleRequired(t *testing.T) {
	lecToken, _ := GenerateToken(lecturer(), testSecret, time.Hour)
	hr := &models.User{ID: 1, Role: models.Role{Name: models.RoleHR}}
	hrToken, _ := GenerateToken(hr, testSecret, time.Hour)
	coord := &models.User{ID: 2, Role: models.Role{Name: models.RoleCoordinator}}
	coordToken, _ := GenerateToken(coord, testSecret, time.Hour)
	users := usersOf(lecturer(), hr, coord)

	onlyHR := newEngine(AuthRequired(testSecret, users), RoleRequired(models.RoleHR))
	if w := get(onlyHR, lecToken); w.Code != http.StatusForbidden {
		t.Errorf("lecturer on HR route: %d", w.Code)
	} else if !strings.Contains(w.Body.String(), "HR") {
		t.Errorf("error should name the required role: %s", w.Body)
	}
	if w := get(onlyHR, hrToken); w.Code != http.StatusOK {
		t.Errorf("HR on HR route: %d", w.Code)
	}

	reviewers := newEngine(AuthRequired(testSecret, users), ReviewerRequired())
	if w := get(reviewers, lecToken); w.Code != http.StatusForbidden {
		t.Errorf("lecturer on review route: %d", w.Code)
	}
	if w := get(reviewers, coordToken); w.Code != http.StatusOK {
		t.Errorf("coordinator on review route: %d", w.Code)
	}
}

func TestAuthRequired_RoleComesFromCurrentRecord(t *testing.T) {
	coord := &models.User{ID: 2, Role: models.Role{Name: models.RoleCoordinator}}
	token, _ := GenerateToken(coord, testSecret, time.Hour)

	demoted := &models.User{ID: 2, Role: models.Role{Name: models.RoleLecturer}}
	r := newEngine(AuthRequired(testSecret, usersOf(demoted)), ReviewerRequired())
	if w := get(r, token); w.Code != http.StatusForbidden {
		t.Errorf("demoted reviewer: expected 403, got %d", w.Code)
	}

	gone := newEngine(AuthRequired(testSecret, usersOf()))
	if w := get(gone, token); w.Code != http.StatusUnauthorized {
		t.Errorf("removed account: expected 401, got %d", w.Code)
	}
}

func TestRequestLogger_LevelFollowsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := gin.New()
	r.Use(RequestLogger(logger))
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "fine") })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for path, level := range map[string]string{"/ok": "INFO", "/bad": "WARN", "/boom": "ERROR"} {
		buf.Reset()
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
		var entry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
			t.Fatalf("%s: %v (%s)", path, err, buf.String())
		}
		if entry["level"] != level || entry["path"] != path {
			t.Errorf("%s: unexpected entry %v", path, entry)
		}
	}
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/claims/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	count := func() float64 {
		var m dto.Metric
		if err := httpRequestsTotal.WithLabelValues(http.MethodGet, "/claims/:id", "204").Write(&m); err != nil {
			t.Fatal(err)
		}
		return m.GetCounter().GetValue()
	}

	before := count()
	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/claims/"+id, nil))
	}
	after := count()
	if after-before != 3 {
		t.Errorf("expected 3 requests counted under the template, got %v", after-before)
	}
}
