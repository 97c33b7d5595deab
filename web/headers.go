package web

import (
	"fmt"
	"net/http"
	"time"
)

var gmtZone *time.Location

func init() {
	var err error
	gmtZone, err = time.LoadLocation("GMT")
	if err != nil {
		gmtZone = time.UTC
	}
}

// HeaderHandler returns an http.Handler that adds the given headers to the response.
func HeaderHandler(h http.Handler, headers map[string]string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range headers {
			w.Header().Set(k, v)
		}
		h.ServeHTTP(w, r)
	})
}

// CacheHandler sets Cache-Control and Expires so that clients keep every
// response, including not-found ones, for maxAge.
func CacheHandler(h http.Handler, maxAge time.Duration) http.Handler {
	seconds := int(maxAge / time.Second)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seconds > 0 {
			w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", seconds))
			w.Header().Set("Expires", time.Now().Add(maxAge).In(gmtZone).Format(time.RFC1123))
		}
		h.ServeHTTP(w, r)
	})
}
