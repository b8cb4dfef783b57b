package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/RRPsystem/wbctx/internal/http/handler"
	"github.com/RRPsystem/wbctx/internal/http/middleware"
)

func New(
	cors *middleware.CORS,
	mintLimiter *middleware.RateLimiter,
	ctxHandler *handler.ContextHandler,
	healthHandler *handler.HealthHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(cors.Middleware())

	r.Get("/healthz", healthHandler.Healthz)

	r.Route("/wbctx-mint", func(r chi.Router) {
		r.Use(mintLimiter.Middleware())
		r.Post("/", ctxHandler.Mint)
	})
	r.Get("/wbctx-redirect/{ctx_id}", ctxHandler.Redirect)
	r.Get("/wbctx-fetch/{ctx_id}", ctxHandler.Fetch)

	return r
}
