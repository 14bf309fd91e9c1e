package web

import (
	"net/http"
	"strings"
	"time"

	"batalhao/internal/adapters/email"
	"batalhao/internal/adapters/http/middleware"
	"batalhao/internal/adapters/http/perf"
	accountStore "batalhao/internal/adapters/storage/account"
	galleryStore "batalhao/internal/adapters/storage/gallery"
	hierarchyStore "batalhao/internal/adapters/storage/hierarchy"
	liveStore "batalhao/internal/adapters/storage/livestream"
	uniformStore "batalhao/internal/adapters/storage/uniform"
	"batalhao/internal/adapters/storage/uploads"
	videoStore "batalhao/internal/adapters/storage/video"
	domainAccount "batalhao/internal/domain/account"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore    accountStore.Store
	GalleryStore    galleryStore.Store
	VideoStore      videoStore.Store
	UniformStore    uniformStore.Store
	HierarchyStore  hierarchyStore.Store
	LiveNoticeStore liveStore.Store
	Files           *uploads.Dir
}

// Options configures NewMux.
type Options struct {
	StaticDir      string
	CSRFKey        []byte // 32 bytes
	SecureCookies  bool
	TrustedOrigins []string
	Sessions       *middleware.SessionStore
	Limiter        *middleware.RateLimiter // nil disables rate limiting
	Perf           *perf.Collector
	SlowRequest    time.Duration // 0 uses middleware.DefaultSlowRequest
	EmailSender    email.Sender // nil disables welcome mail
	PanelURL       string
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender (nil when mail is disabled)
var emailSender email.Sender

var panelURL string

var secureCookies bool

// NewMux wires HTTP handlers for the portal.
func NewMux(opts Options, s *Stores) http.Handler {
	stores = s
	sessions = opts.Sessions
	if sessions == nil {
		sessions = middleware.NewSessionStore(0)
	}
	perfCollector = opts.Perf
	emailSender = opts.EmailSender
	panelURL = opts.PanelURL
	secureCookies = opts.SecureCookies

	mux := http.NewServeMux()
	registerRoutes(mux)

	static := http.FileServer(http.Dir(opts.StaticDir))
	mux.Handle("/", static)
	mux.Handle("/admin/", middleware.RequirePage(sessions, domainAccount.RoleAdmin, opts.SecureCookies, timeNow)(static))
	mux.Handle("/painel/", middleware.RequirePage(sessions, "", opts.SecureCookies, timeNow)(static))
	if s.Files != nil {
		mux.Handle(uploads.PublicPrefix, http.StripPrefix(uploads.PublicPrefix, noDirListing(http.FileServer(http.Dir(s.Files.Root())))))
	}

	// Innermost first: SecurityHeaders -> CSRF -> Timing -> Auth -> RateLimit.
	// Timing sits inside Auth to tag entries with the caller's role.
	chain := []func(http.Handler) http.Handler{
		middleware.SecurityHeaders,
		middleware.CSRF(opts.CSRFKey, opts.SecureCookies, opts.TrustedOrigins),
		middleware.Timing(opts.Perf, opts.SlowRequest),
		middleware.Auth(sessions),
	}
	if opts.Limiter != nil {
		chain = append(chain, middleware.RateLimit(opts.Limiter))
	}
	return middleware.Chain(mux, chain...)
}

// noDirListing hides directory indexes under /uploads/.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// sessionMaxAge is the cookie lifetime matching the session store TTL.
func sessionMaxAge() int {
	return int(sessions.TTL() / time.Second)
}
