package internal

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotr/internal/models"
	"spotr/internal/services"
)

func seed(t *testing.T, f *fixture) string {
	t.Helper()
	ctx := context.Background()
	f.profiles.ToggleFavorite(ctx, "1")
	f.media.AddMedia(ctx, "1", []string{"a.jpg"}, models.Uploader{UserID: "u"})
	f.votes.CastVote(ctx, "m1", services.DirectionUp)
	return f.profiles.GetProfile(ctx).ID
}

func TestMaintenance_ResetProfileAndMedia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	oldID := seed(t, f)

	m := NewMaintenance(f.scheduler, f.profiles, f.media, f.votes, f.logger)
	require.NoError(t, m.Reset(ctx, ResetOptions{Profile: true, Media: true}))

	assert.Equal(t, []string{"restore", "persist"}, f.scheduler.Calls())
	profile := f.profiles.GetProfile(ctx)
	assert.NotEqual(t, oldID, profile.ID)
	assert.Empty(t, profile.Favorites)
	assert.Empty(t, f.media.GetAllMedia(ctx))
	assert.Equal(t, models.VoteMap{"m1": 1}, f.votes.GetAllVotes(ctx))
}

func TestMaintenance_ResetVotesOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	oldID := seed(t, f)

	m := NewMaintenance(f.scheduler, f.profiles, f.media, f.votes, f.logger)
	require.NoError(t, m.Reset(ctx, ResetOptions{Votes: true}))

	assert.Equal(t, oldID, f.profiles.GetProfile(ctx).ID)
	assert.Len(t, f.media.GetAllMedia(ctx), 1)
	assert.Empty(t, f.votes.GetAllVotes(ctx))
}

func TestMaintenance_PersistError(t *testing.T) {
	f := newFixture(t)
	f.scheduler.persistErr = errors.New("read-only fs")

	m := NewMaintenance(f.scheduler, f.profiles, f.media, f.votes, f.logger)
	assert.EqualError(t, m.Reset(context.Background(), ResetOptions{Media: true}), "read-only fs")
}
