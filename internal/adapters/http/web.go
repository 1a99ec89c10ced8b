package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"hearth/internal/adapters/http/middleware"
	eventStore "hearth/internal/adapters/storage/event"
	userStore "hearth/internal/adapters/storage/user"
)

// Stores holds all storage dependencies.
type Stores struct {
	UserStore  userStore.Store
	EventStore eventStore.Store
}

// Options carries the per-household settings the handlers need.
type Options struct {
	// WeekStart is the first column of the month grid.
	WeekStart time.Weekday
	// Location is the household timezone; "today" is computed in it.
	Location *time.Location
}

// loadCSRFKey reads the CSRF secret from HEARTH_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("HEARTH_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("HEARTH_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("HEARTH_ENV") == "production" {
		log.Fatal("HEARTH_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set HEARTH_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global handler options (set by NewMux)
var options Options

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, opts Options) http.Handler {
	stores = s
	options = opts
	if options.Location == nil {
		options.Location = time.UTC
	}
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("HEARTH_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	registerRoutes(mux)

	csrfKey := loadCSRFKey()
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)
	trustedOrigins := []string{"localhost:8080", "127.0.0.1:8080"}
	if extra := os.Getenv("HEARTH_TRUSTED_ORIGINS"); extra != "" {
		trustedOrigins = append(trustedOrigins, extra)
	}

	// Apply middleware: RequestLog -> RateLimit -> Auth -> CSRF -> SecurityHeaders -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey, trustedOrigins),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.RequestLog,
	)
}

func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/users", handleUsers)
	mux.HandleFunc("/api/login", handleLogin)
	mux.HandleFunc("/api/logout", handleLogout)
	mux.HandleFunc("/api/current-user", handleCurrentUser)
	mux.HandleFunc("/api/events", handleEvents)
	mux.HandleFunc("/api/events/", handleEventItem)
	mux.HandleFunc("/api/saved-titles", handleSavedTitles)
	mux.HandleFunc("/api/calendar", handleCalendar)
	mux.HandleFunc("/api/calendar/day", handleCalendarDay)
	mux.HandleFunc("/calendar.ics", handleCalendarFeed)
}
