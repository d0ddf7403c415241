package usecase

import "strings"

// Install and update reasons reported by the browser runtime
const (
	ReasonInstall = "install"
	ReasonUpdate  = "update"
)

// DefaultInfoPageURL is the page opened after install or update
const DefaultInfoPageURL = "https://www.goodaddon.com/sold-by-official/"

// LifecyclePage returns the informational page to open for a runtime
// install or update. Other reasons open nothing.
func LifecyclePage(infoPageURL, reason string) (string, bool) {
	if infoPageURL == "" {
		infoPageURL = DefaultInfoPageURL
	}

	switch strings.ToLower(reason) {
	case ReasonInstall:
		return infoPageURL, true
	case ReasonUpdate:
		return infoPageURL + "#changelog", true
	default:
		return "", false
	}
}
