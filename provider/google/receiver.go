package google

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
)

var _ CodeReceiver = (*LocalCallbackReceiver)(nil)

// LocalCallbackReceiver runs the consent flow against a short-lived local
// HTTP listener bound to the configured redirect URL. It accepts exactly one
// callback and rejects any whose state nonce does not match.
type LocalCallbackReceiver struct {
	// RedirectURL must match the provider Config's RedirectURL and point at
	// a local address, e.g. http://localhost:4200/auth/callback.
	RedirectURL string

	// OpenURL presents the consent URL to the user. When nil the URL is
	// printed to stderr for manual opening.
	OpenURL func(url string) error
}

func (r *LocalCallbackReceiver) ReceiveCode(ctx context.Context, authURL, state string) (string, error) {
	target, err := url.Parse(r.RedirectURL)
	if err != nil {
		return "", fmt.Errorf("invalid redirect URL %q: %w", r.RedirectURL, err)
	}

	listener, err := net.Listen("tcp", target.Host)
	if err != nil {
		return "", fmt.Errorf("cannot listen on %q for the sign-in callback: %w", target.Host, err)
	}

	type result struct {
		code string
		err  error
	}
	results := make(chan result, 1)

	deliver := func(res result) {
		select {
		case results <- res:
		default:
		}
	}

	server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != target.Path {
			http.NotFound(w, req)
			return
		}

		query := req.URL.Query()
		if query.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			deliver(result{err: errors.New("callback state nonce did not match")})
			return
		}

		code := query.Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			deliver(result{err: errors.New("callback carried no authorization code")})
			return
		}

		fmt.Fprint(w, "Signed in. You can close this window.")
		deliver(result{code: code})
	})}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			deliver(result{err: err})
		}
	}()
	defer server.Close()

	if r.OpenURL != nil {
		if err := r.OpenURL(authURL); err != nil {
			return "", fmt.Errorf("could not open the sign-in page: %w", err)
		}
	} else {
		fmt.Fprintf(os.Stderr, "Open the following URL to sign in:\n%s\n", authURL)
	}

	select {
	case res := <-results:
		return res.code, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
