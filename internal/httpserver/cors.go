package httpserver

import (
	"net/http"
	"strings"

	"github.com/suvamneog/foodanalyserr/internal/config"
)

// CORSMiddleware adds CORS headers for allowed origins. Preflight answers
// list only the methods routes registers for the requested path.
func CORSMiddleware(cfg *config.Config, routes *routeTable, next http.Handler) http.Handler {
	allowed := make(map[string]bool, len(cfg.CORSAllowedOrigins))
	for _, o := range cfg.CORSAllowedOrigins {
		allowed[strings.TrimSpace(o)] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		originAllowed := origin != "" && allowed[origin]

		if originAllowed {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			if cfg.CORSAllowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
		}

		if r.Method != http.MethodOptions || origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		// preflight: чужой origin получает 204 без заголовков, браузер заблокирует
		if !originAllowed {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		methods := routes.methodsFor(r.URL.Path)
		if methods == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		w.Header().Set("Access-Control-Allow-Methods", strings.Join(methods, ","))
		w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
		w.Header().Set("Access-Control-Max-Age", "600")
		w.Header().Add("Vary", "Access-Control-Request-Method")
		w.WriteHeader(http.StatusNoContent)
	})
}
