package middleware

import (
	"strings"

	"github.com/haierkeys/fast-note-web/pkg/code"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

const (
	// LangKey gin 上下文中的协商语言
	LangKey = "lang"
	// TransKey gin 上下文中的翻译器
	TransKey = "trans"
)

// LangWithTranslator negotiates the language from the lang query parameter,
// the lang header and Accept-Language, in that order, falling back to the
// configured default.
// LangWithTranslator 依次从 lang 查询参数、lang 请求头与 Accept-Language 协商语言，失败时使用默认语言。
func LangWithTranslator(uni *ut.UniversalTranslator) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := negotiate(c)

		trans, found := uni.GetTranslator(lang)
		if !found {
			trans, _ = uni.GetTranslator(code.FALLBACK_LNG)
		}
		c.Set(TransKey, trans)
		c.Set(LangKey, lang)

		c.Next()
	}
}

func negotiate(c *gin.Context) string {
	candidates := []string{c.Query("lang"), c.GetHeader("lang")}
	for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
		tag, _, _ := strings.Cut(part, ";")
		candidates = append(candidates, tag)
	}
	for _, s := range candidates {
		s = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))
		if s == "" {
			continue
		}
		if code.IsSupported(s) {
			return s
		}
		if base, _, ok := strings.Cut(s, "_"); ok && code.IsSupported(base) {
			return base
		}
	}
	return code.GetGlobalDefaultLang()
}
