package user

// Principal is the Farcaster identity proven by a quick-auth token.
type Principal struct {
	FID int64
}
