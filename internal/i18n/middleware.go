package i18n

import "net/http"

// Middleware picks a localizer per request from the lang cookie, then the
// Accept-Language header, then the default language given to Init.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var langs []string
			if c, err := r.Cookie("lang"); err == nil && c.Value != "" {
				langs = append(langs, c.Value)
			}
			if al := r.Header.Get("Accept-Language"); al != "" {
				langs = append(langs, al)
			}
			ctx := WithLocalizer(r.Context(), NewLocalizer(langs...))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
