package services

import (
	"context"

	json "github.com/goccy/go-json"

	"spotr/internal/kvstore"
	"spotr/internal/models"
	"spotr/internal/providers"
)

const VotesKey = "spotr:mediaVotes"

const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

type VoteStoreInterface interface {
	GetAllVotes(ctx context.Context) models.VoteMap
	GetVote(ctx context.Context, mediaID string) int
	SetVote(ctx context.Context, mediaID string, value int) models.VoteMap
	CastVote(ctx context.Context, mediaID, direction string) models.VoteMap
	ClearVotes(ctx context.Context)
}

// VoteStore keeps every vote in one map under a single key.
type VoteStore struct {
	store  kvstore.StoreInterface
	logger providers.Logger
}

func NewVoteStore(store kvstore.StoreInterface, logger providers.Logger) VoteStoreInterface {
	return &VoteStore{store: store, logger: logger}
}

func decodeVotes(raw string, found bool) (models.VoteMap, error) {
	votes := models.VoteMap{}
	if !found || raw == "" {
		return votes, nil
	}
	if err := json.Unmarshal([]byte(raw), &votes); err != nil {
		return models.VoteMap{}, err
	}
	if votes == nil {
		votes = models.VoteMap{}
	}
	return votes, nil
}

func (vs *VoteStore) GetAllVotes(ctx context.Context) models.VoteMap {
	raw, found, err := vs.store.Get(ctx, VotesKey)
	if err != nil {
		vs.logger.Warnf(providers.TypeStorage, "Failed to read votes: %s", err)
		return models.VoteMap{}
	}
	votes, err := decodeVotes(raw, found)
	if err != nil {
		vs.logger.Warnf(providers.TypeStorage, "Corrupt vote map: %s", err)
	}
	return votes
}

func (vs *VoteStore) GetVote(ctx context.Context, mediaID string) int {
	if mediaID == "" {
		return models.VoteNeutral
	}
	return models.ClampVote(vs.GetAllVotes(ctx)[mediaID])
}

// SetVote stores the clamped value for mediaID and returns the whole map.
// Zero votes are kept as explicit entries. An empty id or a failed write
// returns an empty map.
func (vs *VoteStore) SetVote(ctx context.Context, mediaID string, value int) models.VoteMap {
	safe := models.ClampVote(value)
	return vs.apply(ctx, mediaID, func(int) int { return safe })
}

// CastVote toggles an up or down vote: voting the same way twice returns
// the item to neutral. Unknown directions leave the map untouched.
func (vs *VoteStore) CastVote(ctx context.Context, mediaID, direction string) models.VoteMap {
	var target int
	switch direction {
	case DirectionUp:
		target = models.VoteUp
	case DirectionDown:
		target = models.VoteDown
	default:
		return vs.GetAllVotes(ctx)
	}
	return vs.apply(ctx, mediaID, func(current int) int {
		if current == target {
			return models.VoteNeutral
		}
		return target
	})
}

// apply rewrites one entry of the vote map under optimistic concurrency.
func (vs *VoteStore) apply(ctx context.Context, mediaID string, fn func(current int) int) models.VoteMap {
	if mediaID == "" {
		return models.VoteMap{}
	}
	var updated models.VoteMap
	_, err := vs.store.Update(ctx, VotesKey, func(current string, found bool) (string, error) {
		votes, derr := decodeVotes(current, found)
		if derr != nil {
			vs.logger.Warnf(providers.TypeStorage, "Replacing corrupt vote map: %s", derr)
		}
		votes[mediaID] = models.ClampVote(fn(models.ClampVote(votes[mediaID])))
		updated = votes
		data, err := json.Marshal(votes)
		return string(data), err
	})
	if err != nil {
		vs.logger.Warnf(providers.TypeStorage, "Failed to save vote for %s: %s", mediaID, err)
		return models.VoteMap{}
	}
	return updated
}

func (vs *VoteStore) ClearVotes(ctx context.Context) {
	if err := vs.store.Remove(ctx, VotesKey); err != nil {
		vs.logger.Warnf(providers.TypeStorage, "Failed to clear votes: %s", err)
	}
}
