package middleware

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

type gzipResponseWriter struct {
	http.ResponseWriter
	Writer io.Writer
}

func (w gzipResponseWriter) Write(b []byte) (int, error) {
	return w.Writer.Write(b)
}

func GzipHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Encoding") == "gzip" {
			gzr, err := gzip.NewReader(r.Body)
			if err != nil {
				http.Error(rw, "Failed to create gzip reader", http.StatusBadRequest)
				return
			}
			defer gzr.Close()
			r.Body = io.NopCloser(gzr)
		}

		if strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			rw.Header().Set("Content-Encoding", "gzip")
			gzw := gzip.NewWriter(rw)
			defer gzw.Close()

			gzrw := gzipResponseWriter{Writer: gzw, ResponseWriter: rw}
			next.ServeHTTP(gzrw, r)
		} else {
			next.ServeHTTP(rw, r)
		}
	})
}

// AdminCookie carries the back-office JWT. The token is issued elsewhere;
// this service only consumes the role claim.
const AdminCookie = "admin_token"

type adminClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type ctxKeyRole struct{}

// AdminAuth gates admin routes on a valid admin_token cookie. When role is
// non-empty the claim must match it exactly.
func AdminAuth(secret []byte, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(AdminCookie)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusForbidden)
				return
			}

			claims := &adminClaims{}
			token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
				return secret, nil
			})
			if err != nil || !token.Valid || claims.Role == "" {
				http.Error(w, "unauthorized", http.StatusForbidden)
				return
			}
			if role != "" && claims.Role != role {
				http.Error(w, "unauthorized", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyRole{}, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(ctxKeyRole{}).(string)
	return role
}
