package probe

import (
	"net/http"
	"strings"

	"github.com/hamed0406/simpeyes/internal/domain"
)

// Maintenance and "pardon" pages served with a 200.
var pardonPhrases = []string{
	"Pardon us!",
	"We are in the middle of upgrading.",
	"We will be back in a few minutes",
	"PAGE NOT FOUND!",
}

var titleMarkers = []string{
	"<title>Error Page</title>",
	"<title>404</title>",
	"Page Not Found",
}

// Classify maps a status code and body to a Status and error-page reason.
// A non-200 code short-circuits before the body is looked at.
func Classify(code int, body string) (domain.Status, string) {
	if code != http.StatusOK {
		return domain.StatusDownHTTP, domain.ErrorPageNone
	}
	if containsAny(body, pardonPhrases) {
		return domain.StatusDownErrorPage, domain.ErrorPagePardon
	}
	if containsAny(body, titleMarkers) {
		return domain.StatusDownErrorPage, domain.ErrorPageTitle
	}
	return domain.StatusUp, domain.ErrorPageNone
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
