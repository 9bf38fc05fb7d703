package render

import (
	"fmt"

	"github.com/kayz/sift/internal/security"
)

// link renders text as an external anchor to rawURL. URLs that are not
// absolute http(s) never reach an href; the text is shown unlinked instead.
func link(rawURL, text, class string) string {
	classAttr := ""
	if class != "" {
		classAttr = fmt.Sprintf(` class="%s"`, class)
	}
	if security.ValidateResultURL(rawURL) != nil {
		return fmt.Sprintf(`<span%s>%s</span>`, classAttr, EscapeText(text))
	}
	return fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer"%s>%s</a>`,
		EscapeAttr(rawURL), classAttr, EscapeText(text))
}
