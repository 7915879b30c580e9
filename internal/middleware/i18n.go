// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/javajoker/vehicle-gateway/internal/i18n"

	"github.com/gin-gonic/gin"
)

func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := c.Query("lang")
		if lang == "" {
			lang = c.GetHeader("Accept-Language")
		}

		c.Set("lang", resolveLanguage(lang))
		c.Next()
	}
}

// resolveLanguage handles values like "en-US,en;q=0.9,vi;q=0.8" and falls
// back to the default bundle.
func resolveLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.ToLower(strings.TrimSpace(strings.Split(part, ";")[0]))
		if tag == "" {
			continue
		}

		switch {
		case tag == "vi" || strings.HasPrefix(tag, "vi-"):
			return "vi"
		case tag == "en" || strings.HasPrefix(tag, "en-"):
			return "en"
		}

		if i18n.Supports(tag) {
			return tag
		}
	}
	return i18n.DefaultLanguage()
}
