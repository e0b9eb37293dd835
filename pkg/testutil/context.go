package testutil

import "net/http"

// WithBearer attaches a session token the way a signed-in client would.
func WithBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
