package core

import "net/url"

// Origin identifies a requesting page by scheme, host and port.
type Origin string

// DAppMetadata is the self-reported identity of a requesting dApp.
// It is not verified beyond origin derivation from URL.
type DAppMetadata struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	IconURL     string `json:"iconUrl,omitempty"`
}

// OriginFromURL derives the origin of a dApp from its declared URL.
// A URL that cannot be parsed, or that has no scheme or host, yields
// no origin; this is never an error.
func OriginFromURL(rawURL string) (Origin, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	return Origin(u.Scheme + "://" + u.Host), true
}

// Origin derives the origin from the dApp's declared URL.
func (d DAppMetadata) Origin() (Origin, bool) {
	return OriginFromURL(d.URL)
}
