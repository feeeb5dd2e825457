package auth

import "context"

var _ Checker = (*LoginChecker)(nil)

type Checker interface {
	// IsLogged resolves the session token into the ID of the logged user.
	IsLogged(ctx context.Context, token string) (userID string, isLogged bool, err error)
}
