package server

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"mediavault/internal/catalog"
	"mediavault/internal/objectstore"
)

const (
	allowRemoteEnvKey = "MEDIAVAULT_ALLOW_REMOTE"
	readHeaderTimeout = 5 * time.Second
	idleTimeout       = 60 * time.Second
)

// Options configures upload handling and admin access.
type Options struct {
	// AdminToken is the bearer credential for mutating routes, either
	// plaintext or a bcrypt hash.
	AdminToken         string
	MaxUploadBytes     int64
	MultipartMaxMemory int64
	AllowedMediaTypes  []string
}

// Server wraps the HTTP handlers for the mediavault API: byte-serving file
// routes, upload, and the media catalog.
type Server struct {
	addr    string
	store   objectstore.Store
	catalog catalog.Store
	logger  *slog.Logger

	adminToken         string
	maxUploadBytes     int64
	multipartMaxMemory int64
	allowedMediaTypes  map[string]struct{}

	media *MediaService
}

// New creates a new server instance.
func New(addr string, store objectstore.Store, cat catalog.Store, logger *slog.Logger, opts Options) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 200 << 20
	}
	if opts.MultipartMaxMemory <= 0 {
		opts.MultipartMaxMemory = 8 << 20
	}

	var allowed map[string]struct{}
	if len(opts.AllowedMediaTypes) > 0 {
		allowed = make(map[string]struct{}, len(opts.AllowedMediaTypes))
		for _, mediaType := range opts.AllowedMediaTypes {
			mediaType = strings.ToLower(strings.TrimSpace(mediaType))
			if mediaType != "" {
				allowed[mediaType] = struct{}{}
			}
		}
	}

	return &Server{
		addr:               addr,
		store:              store,
		catalog:            cat,
		logger:             logger,
		adminToken:         strings.TrimSpace(opts.AdminToken),
		maxUploadBytes:     opts.MaxUploadBytes,
		multipartMaxMemory: opts.MultipartMaxMemory,
		allowedMediaTypes:  allowed,
		media:              NewMediaService(cat, store),
	}
}

// ListenAndServe starts the HTTP server. WriteTimeout stays unset: byte
// serving of large media cannot bound the response write time, and slow
// clients are expected to back-pressure the stream instead.
func (s *Server) ListenAndServe() error {
	s.log().Info("starting server", "addr", s.addr)
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
	return server.ListenAndServe()
}

// ListenAddr converts a base URL or host:port into a listen address,
// refusing non-loopback hosts unless MEDIAVAULT_ALLOW_REMOTE=true.
func ListenAddr(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("listen address is required")
	}
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		if !isAllowedListenHost(u.Hostname()) {
			return "", fmt.Errorf("remote listen host %q requires %s=true", u.Hostname(), allowRemoteEnvKey)
		}
		return u.Host, nil
	}

	host, _, err := net.SplitHostPort(raw)
	if err == nil && !isAllowedListenHost(host) {
		return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
	}
	return raw, nil
}

func isAllowedListenHost(host string) bool {
	if host == "" {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv(allowRemoteEnvKey)), "true") {
		return true
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *Server) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
