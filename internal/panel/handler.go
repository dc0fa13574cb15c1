package panel

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Handler serves a panel over HTTP. Every panel call is made under one
// lock.
type Handler struct {
	mu        sync.Mutex
	panel     *Panel
	selection []string
	limiter   *rate.Limiter
	router    chi.Router
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithRateLimit caps measurement requests at rps per second with the given
// burst. A non-positive rps disables the limit.
func WithRateLimit(rps float64, burst int) HandlerOption {
	return func(h *Handler) {
		if rps <= 0 {
			h.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		h.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewHandler builds the HTTP routes for p. origins lists the CORS origins
// allowed to call the API.
func NewHandler(p *Panel, origins []string, opts ...HandlerOption) *Handler {
	h := &Handler{panel: p}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.health)
	r.Group(func(r chi.Router) {
		r.Use(h.limit)
		r.Get("/widget", h.widget)
		r.Get("/measurement", h.measurement)
		r.Post("/measurement/toggle", h.toggle)
	})

	h.router = r
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.limiter != nil && !h.limiter.Allow() {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) widget(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{
		"id":     h.panel.ID(),
		"title":  h.panel.Title(),
		"key":    h.panel.Key(),
		"system": h.panel.System().String(),
	})
}

func (h *Handler) measurement(w http.ResponseWriter, r *http.Request) {
	selection := parseIDs(r.URL.Query().Get("ids"))

	h.mu.Lock()
	defer h.mu.Unlock()

	h.selection = selection
	writeJSON(w, http.StatusOK, h.panel.Evaluate(selection))
}

func (h *Handler) toggle(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.panel.Toggle()
	res := h.panel.Evaluate(h.selection)
	zap.L().Debug("measurement units toggled",
		zap.String("system", h.panel.System().String()),
	)
	writeJSON(w, http.StatusOK, res)
}

func parseIDs(raw string) []string {
	ids := []string{}
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("encode response", zap.Error(err))
	}
}
