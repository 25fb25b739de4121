// Package updater performs the cached release check behind the startup
// banner. It never blocks a scaffolding run: the banner prints from the
// cache, and a stale cache refreshes in the background for next time.
package updater

import (
	"net/http"
	"time"
)

// Updater checks GitHub releases for a newer build.
type Updater struct {
	currentVersion string
	httpClient     *http.Client
}

// Release is the subset of the GitHub release payload the updater reads.
type Release struct {
	Version string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// New returns an Updater for the given running version.
func New(currentVersion string) *Updater {
	return &Updater{
		currentVersion: currentVersion,
		httpClient:     &http.Client{Timeout: 10 * time.Second},
	}
}
