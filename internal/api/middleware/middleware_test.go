package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sessionEngine() *gin.Engine {
	r := gin.New()
	r.Use(Session(SessionOptions{CookieName: "session_id", TTL: time.Hour}))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, SessionID(c)+"|"+UserID(c))
	})
	return r
}

func TestSessionGeneratesCookie(t *testing.T) {
	r := sessionEngine()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "session_id" {
		t.Fatalf("expected session cookie, got %v", cookies)
	}
	if !cookies[0].HttpOnly {
		t.Fatal("session cookie must be HttpOnly")
	}
	if got := w.Body.String(); got != cookies[0].Value+"|" {
		t.Fatalf("unexpected body %q", got)
	}
}

func TestSessionReusesExistingID(t *testing.T) {
	r := sessionEngine()
	id := "0b6c3b8e-5d0e-4d5e-9c39-2f8f0d0b8f11"

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "session_id", Value: id})
	req.Header.Set(HeaderUserID, " u1 ")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Body.String(); got != id+"|u1" {
		t.Fatalf("unexpected body %q", got)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Fatal("existing session should not set a new cookie")
	}

	// 非 UUID 的 session ID 會被替換
	req = httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(HeaderSessionID, "../../etc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if strings.HasPrefix(w.Body.String(), "../") {
		t.Fatalf("invalid session id accepted: %q", w.Body.String())
	}
}

func TestRateLimiterRefills(t *testing.T) {
	now := time.Now()
	rl := NewRateLimiter(2, time.Second)

	if !rl.allowAt(now) || !rl.allowAt(now) {
		t.Fatal("expected initial burst to be allowed")
	}
	if rl.allowAt(now) {
		t.Fatal("expected bucket to be empty")
	}
	// 每 250ms 補半個令牌，兩次後才足夠
	if rl.allowAt(now.Add(250 * time.Millisecond)) {
		t.Fatal("half a token must not allow a request")
	}
	if !rl.allowAt(now.Add(500 * time.Millisecond)) {
		t.Fatal("expected accumulated fractional tokens to allow a request")
	}
}

func TestClientLimitersSweepIdle(t *testing.T) {
	now := time.Now()
	clients := &clientLimiters{
		limiters:  make(map[string]*RateLimiter),
		requests:  1,
		window:    time.Second,
		idle:      10 * time.Second,
		lastSweep: now,
	}

	clients.get("10.0.0.1", now)
	clients.get("10.0.0.2", now.Add(11*time.Second))
	if len(clients.limiters) != 1 {
		t.Fatalf("expected idle client to be swept, have %d", len(clients.limiters))
	}
	if _, ok := clients.limiters["10.0.0.2"]; !ok {
		t.Fatal("active client must be kept")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(1, time.Minute))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	if first.Code != http.StatusOK || second.Code != http.StatusTooManyRequests {
		t.Fatalf("unexpected statuses %d, %d", first.Code, second.Code)
	}
	if second.Header().Get("Retry-After") != "60" {
		t.Fatalf("unexpected Retry-After %q", second.Header().Get("Retry-After"))
	}
}

func TestDeduplication(t *testing.T) {
	d := NewDeduplicator(time.Second)
	now := time.Now()
	d.now = func() time.Time { return now }

	r := gin.New()
	r.Use(d.Middleware())
	r.POST("/search", func(c *gin.Context) { c.Status(http.StatusOK) })

	post := func(body string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(body)))
		return w.Code
	}

	if code := post(`{"ingredients":["egg"]}`); code != http.StatusOK {
		t.Fatalf("first request: %d", code)
	}
	if code := post(`{"ingredients":["egg"]}`); code != http.StatusTooManyRequests {
		t.Fatalf("duplicate request: %d", code)
	}
	if code := post(`{"ingredients":["milk"]}`); code != http.StatusOK {
		t.Fatalf("different body: %d", code)
	}

	now = now.Add(2 * time.Second)
	if code := post(`{"ingredients":["egg"]}`); code != http.StatusOK {
		t.Fatalf("after window: %d", code)
	}
}

func TestBodySizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodySizeLimit(8))
	r.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"ingredients":[]}`)))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", w.Code)
	}
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(10 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))
	if w.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %d", w.Code)
	}
}
