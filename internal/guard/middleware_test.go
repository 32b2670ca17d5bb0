package guard

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/zealess/doj-frontend/internal/session"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	dash := r.Group("/dashboard")
	dash.Use(RequireCredential("doj_token", "/"))
	dash.GET("/*page", func(c *gin.Context) {
		tok, err := session.Token(c.Request.Context())
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, tok)
	})
	return r
}

func TestMissingCookieRedirectsWithFrom(t *testing.T) {
	r := newRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/ci", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307, got %d", w.Code)
	}
	loc, err := url.Parse(w.Header().Get("Location"))
	if err != nil {
		t.Fatalf("location: %v", err)
	}
	if loc.Path != "/" {
		t.Fatalf("expected entry path, got %q", loc.Path)
	}
	if got := loc.Query().Get("from"); got != "/dashboard/ci" {
		t.Fatalf("expected from=/dashboard/ci, got %q", got)
	}
}

func TestEmptyCookieValueIsAbsent(t *testing.T) {
	r := newRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/", nil)
	req.AddCookie(&http.Cookie{Name: "doj_token", Value: ""})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected 307, got %d", w.Code)
	}
}

func TestPresentCookiePassesAndInjectsToken(t *testing.T) {
	r := newRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/", nil)
	// Presence only: the guard does not care whether the token is valid.
	req.AddCookie(&http.Cookie{Name: "doj_token", Value: "whatever-expired"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "whatever-expired" {
		t.Fatalf("token not propagated: %q", w.Body.String())
	}
}
