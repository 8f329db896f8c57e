package httpbase

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"opencsg.com/image-moderation/common/i18n"
)

const HeaderLanguageKey = "Accept-Language"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// OK responds the client with data as the top level JSON body.
//
// Example:
// * OK(c, decision)
// * OK(c, gin.H{"status": "healthy"})
func OK(c *gin.Context, data interface{}) {
	c.PureJSON(http.StatusOK, data)
}

// BadRequest responds with the message the caller has to act on, untranslated.
//
// Example:
//
//	BadRequest(c, "the file is empty")
func BadRequest(c *gin.Context, errMsg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Detail: errMsg})
}

// ServiceUnavailable responds with a generic, localized message. The cause is
// only logged by the caller and never returned.
func ServiceUnavailable(c *gin.Context) {
	abortLocalized(c, http.StatusServiceUnavailable, "service unavailable")
}

// ServerError responds with a generic, localized message.
func ServerError(c *gin.Context) {
	abortLocalized(c, http.StatusInternalServerError, "internal server error")
}

func abortLocalized(c *gin.Context, status int, defaultMsg string) {
	msg := defaultMsg
	if messageID, ok := i18n.StatusCodeMessageMap[status]; ok {
		lang := i18n.MatchLanguage(c.GetHeader(HeaderLanguageKey))
		msg, _ = i18n.TranslateText(lang, messageID, defaultMsg)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Detail: msg})
}
