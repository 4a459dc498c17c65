// Package auth implements the login state machine that establishes a trusted
// GitHub identity for a catcher session.
//
// A Machine owns the AuthState and the access token. All mutation happens on
// the goroutine running Machine.Run; public operations, callback deliveries,
// and the results of background work (token exchange, identity lookup,
// timers) are all posted to that goroutine as events. Results that belong to
// an abandoned login attempt are recognised by their attempt id and dropped.
//
// States move along
//
//	NotAuthenticated -> AwaitingAuthentication -> ConfirmOAuthUser -> Authenticated
//
// and every recognised failure returns the machine to NotAuthenticated,
// handing the error once to the configured ErrorReporter.
package auth
