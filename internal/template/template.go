package template

import (
	"strings"

	"github.com/recordar/contact-gateway/internal/model"
)

// Render substitutes the recognized placeholders in content with the
// contact's data. Unknown placeholders are left untouched, and values are
// inserted literally, so rendering is a single pass with no re-scanning
// of substituted text.
func Render(content string, contact *model.Contact) string {
	if contact == nil {
		return content
	}
	replacer := strings.NewReplacer(
		"{{name}}", contact.Name,
		"{{email}}", contact.Email,
		"{{whatsapp}}", contact.Whatsapp,
	)
	return replacer.Replace(content)
}

// Placeholders reports which recognized placeholders appear in content.
func Placeholders(content string) []string {
	var found []string
	for _, p := range model.DefaultVariables {
		if strings.Contains(content, p) {
			found = append(found, p)
		}
	}
	return found
}
