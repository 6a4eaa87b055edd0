package cast

import "strings"

// Kind selects a cast template.
type Kind string

const (
	KindShare  Kind = "share"
	KindLive   Kind = "live"
	KindResult Kind = "result"
)

func ParseKind(v string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(v)))
	switch k {
	case KindShare, KindLive, KindResult:
		return k, true
	default:
		return "", false
	}
}
