// Package oauth implements the client side of the catcher GitHub login.
//
// It provides the pieces the auth state machine drives:
//   - BrowserRedirector builds the provider login URL and opens it
//   - CallbackServer is the loopback HTTP listener the provider redirects back
//     to; it forwards every {code, state} or {error} result to the currently
//     registered listener
//   - Exchanger trades an authorization code for an access token against the
//     catcher token endpoint (GET <base>/<code>/client_id/<clientID>)
//   - CredentialStore persists the confirmed credential so a restart can
//     resume without logging in again
//
// # Callback delivery
//
// The callback channel is push-based. A consumer registers with Listen and
// must call the returned function when it stops caring about callbacks:
//
//	unregister := server.Listen(func(r oauth.CallbackResult) { ... })
//	defer unregister()
//
// Closing the server with a listener still registered delivers a single
// WindowClosed result, which consumers treat as a voluntary cancel.
//
// # Credential Storage
//
// The credential is stored in ~/.config/catcher/credentials.json with 0600
// permissions inside a 0700 directory. Token values are never logged.
package oauth
