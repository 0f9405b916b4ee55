package domain

// TokenPair is what a successful login or refresh produces: the short-lived
// access token handed to the caller and the refresh token destined for the
// protected cookie.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
