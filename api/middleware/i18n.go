package middleware

import (
	"github.com/gin-gonic/gin"
	"opencsg.com/image-moderation/api/httpbase"
	"opencsg.com/image-moderation/common/i18n"
)

// ModifyAcceptLanguageMiddleware replaces the Accept-Language header with the
// closest supported language, en-US when nothing matches.
func ModifyAcceptLanguageMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := i18n.MatchLanguage(c.GetHeader(httpbase.HeaderLanguageKey))
		c.Request.Header.Set(httpbase.HeaderLanguageKey, lang)
		c.Next()
	}
}
