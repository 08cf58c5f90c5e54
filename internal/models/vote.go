package models

type VoteMap map[string]int

const (
	VoteDown    = -1
	VoteNeutral = 0
	VoteUp      = 1
)

// ClampVote maps anything outside {-1, 0, 1} to 0.
func ClampVote(v int) int {
	switch v {
	case VoteDown, VoteNeutral, VoteUp:
		return v
	default:
		return VoteNeutral
	}
}

func (v VoteMap) Clone() VoteMap {
	out := make(VoteMap, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
