// Package oauth provides small OAuth helpers shared by the catcher login flow.
//
// It currently holds anti-forgery state generation and comparison:
//
//	state, err := oauth.GenerateState()
//	...
//	if !oauth.StatesEqual(state, returned) {
//	    // ignore the callback
//	}
package oauth
