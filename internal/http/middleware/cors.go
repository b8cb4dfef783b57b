package middleware

import "net/http"

// CORS gatekeeps which origins may call the public endpoints: exact,
// case-sensitive allow-list matching, echoing the matched origin or
// falling back to the first allowed one. Vary: Origin is always set.
type CORS struct {
	allowed       map[string]struct{}
	defaultOrigin string
}

func NewCORS(allowedOrigins []string) *CORS {
	c := &CORS{allowed: make(map[string]struct{}, len(allowedOrigins))}
	for _, o := range allowedOrigins {
		if c.defaultOrigin == "" {
			c.defaultOrigin = o
		}
		c.allowed[o] = struct{}{}
	}
	return c
}

// AllowOrigin resolves the Access-Control-Allow-Origin value for a
// request origin.
func (c *CORS) AllowOrigin(origin string) string {
	if _, ok := c.allowed[origin]; ok {
		return origin
	}
	return c.defaultOrigin
}

func (c *CORS) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", c.AllowOrigin(r.Header.Get("Origin")))
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, apikey")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
