package i18n

import (
	"embed"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/naoina/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var localeFS embed.FS

var (
	bundle       *i18n.Bundle
	LocalizerMap = map[string]*i18n.Localizer{}
	// Matcher picks the closest supported language for an Accept-Language header
	Matcher language.Matcher
)

// StatusCodeMessageMap maps the localized status codes to their message IDs.
var StatusCodeMessageMap = map[int]string{
	http.StatusInternalServerError: "InternalServerError",
	http.StatusServiceUnavailable:  "ServiceUnavailable",
}

func init() {
	bundle = i18n.NewBundle(language.AmericanEnglish)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(localeFS, "locales/*.toml")
	if err != nil {
		panic(err)
	}
	for _, file := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			panic(err)
		}
	}

	tags := bundle.LanguageTags()
	for _, tag := range tags {
		LocalizerMap[tag.String()] = i18n.NewLocalizer(bundle, tag.String())
	}
	Matcher = language.NewMatcher(tags)
}

// TranslateText localizes messageID into lang, falling back to defaultMessage.
func TranslateText(lang, messageID, defaultMessage string) (string, bool) {
	localizer, ok := LocalizerMap[lang]
	if !ok {
		slog.Debug("language not supported", slog.String("lang", lang))
		return defaultMessage, false
	}
	message, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID: messageID,
	})
	if err != nil {
		return defaultMessage, false
	}
	return message, true
}

// MatchLanguage resolves an Accept-Language header value to a supported tag, en-US by default.
func MatchLanguage(acceptLanguage string) string {
	if acceptLanguage == "" {
		return language.AmericanEnglish.String()
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return language.AmericanEnglish.String()
	}
	_, index, confidence := Matcher.Match(tags...)
	if confidence == language.No {
		return language.AmericanEnglish.String()
	}
	return bundle.LanguageTags()[index].String()
}
