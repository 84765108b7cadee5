// Package httpapi exposes the messenger over HTTP with the routes of the original web client.
package httpapi

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"
	"wegetchat/auth"
	"wegetchat/domain"
	"wegetchat/errors"
	"wegetchat/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Uploads stores files received with messages and profile settings.
type Uploads interface {
	Save(originalName string, r io.Reader) (domain.Attachment, error)
	SavePicture(originalName string, r io.Reader) (string, error)
	Remove(url string)
	Dir() string
}

type Config struct {
	MaxUploadBytes int64
	CookieSecure   bool
	AllowedOrigins []string
}

type Server struct {
	log       *slog.Logger
	messenger services.IMessengerService
	issuer    *auth.TokenIssuer
	uploads   Uploads
	cfg       Config
}

func NewServer(log *slog.Logger, messenger services.IMessengerService, issuer *auth.TokenIssuer,
	uploads Uploads, cfg Config) *Server {
	return &Server{log: log, messenger: messenger, issuer: issuer, uploads: uploads, cfg: cfg}
}

// Router builds the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	if len(s.cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.cfg.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeOK(w) })
	r.Handle("/uploads/*", s.uploadsHandler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(auth.Interceptor(s.issuer, s.unauthenticated))
			r.Use(s.requireUser)

			r.Post("/logout", s.handleLogout)
			r.Get("/me", s.handleMe)
			r.Put("/settings", s.handleSettings)
			r.Get("/users/search", s.handleSearch)
			r.Post("/friends/{friendId}", s.handleAddFriend)
			r.Get("/conversations", s.handleListConversations)
			r.Get("/conversations/{id}/messages", s.handleGetMessages)
			r.Post("/conversations/{id}/messages", s.handleSendMessage)
			r.Post("/conversations/{id}/read", s.handleMarkRead)
			r.Get("/notifications", s.handleListNotifications)
			r.Post("/notifications/read-all", s.handleMarkAllNotificationsRead)
		})
	})
	return r
}

// Serve runs the HTTP server until ctx is canceled, then drains in-flight requests.
func (s *Server) Serve(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("Shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) unauthenticated(w http.ResponseWriter, _ *http.Request) {
	writeError(w, s.log, errors.ErrNotAuthenticated)
}

type profileKey struct{}

// requireUser rejects valid tokens whose user no longer exists.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := auth.UserIDFrom(r.Context())
		profile, err := s.messenger.GetProfile(userID)
		if err != nil {
			s.clearSession(w)
			writeError(w, s.log, errors.ErrSessionExpired)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), profileKey{}, profile)))
	})
}

func currentUser(r *http.Request) domain.Profile {
	p, _ := r.Context().Value(profileKey{}).(domain.Profile)
	return p
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) startSession(w http.ResponseWriter, userID string) error {
	token, err := s.issuer.Generate(userID)
	if err != nil {
		return errors.ErrInternal.Wrap(err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.cfg.CookieSecure,
		Expires:  time.Now().Add(s.issuer.Lifetime()),
	})
	return nil
}

func (s *Server) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.cfg.CookieSecure,
		MaxAge:   -1,
	})
}
