package errorx

import (
	"errors"
	"regexp"
	"strings"
)

var sanitizers = []*regexp.Regexp{
	// URLs must go before paths, otherwise only the path part is stripped.
	regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9+.-]*://[^\s]+`),
	regexp.MustCompile(`[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`),
	regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}(?::\d+)?\b`),
	// IPv6 needs all 8 groups or a "::", so clock times are kept.
	regexp.MustCompile(`\b(?:[0-9a-fA-F]{1,4}:){7}[0-9a-fA-F]{1,4}\b` +
		`|\b(?:[0-9a-fA-F]{1,4}:){1,7}:(?:[0-9a-fA-F]{1,4}(?::[0-9a-fA-F]{1,4}){0,6}\b)?` +
		`|::[0-9a-fA-F]{1,4}(?::[0-9a-fA-F]{1,4}){0,6}\b`),
	regexp.MustCompile(`(?:[A-Za-z]:)?(?:[\\/][\w.\-]+){2,}`),
	regexp.MustCompile(`#\d+`),
}

var spaces = regexp.MustCompile(`\s{2,}`)

// Sanitize removes identifiers, file paths, URLs and network addresses from a
// message before it leaves the service.
func Sanitize(msg string) string {
	for _, re := range sanitizers {
		msg = re.ReplaceAllString(msg, "")
	}

	msg = spaces.ReplaceAllString(msg, " ")
	msg = strings.TrimSpace(msg)
	msg = strings.TrimRight(msg, ":,")
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return Unknown.Message
	}

	return msg
}

// Public returns the version of err which is safe to send to clients.
func Public(err error) Error {
	var errx Error
	if !errors.As(err, &errx) {
		return Unknown
	}

	if errx.Code == Internal {
		errx.Message = Sanitize(errx.Message)
	}

	return errx
}
