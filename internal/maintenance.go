package internal

import (
	"context"
	"spotr/internal/kvstore"
	"spotr/internal/providers"
	"spotr/internal/services"
)

type ResetOptions struct {
	Profile bool
	Media   bool
	Votes   bool
}

// Maintenance runs offline operations against the persisted store.
type Maintenance struct {
	scheduler kvstore.SchedulerInterface
	profiles  services.ProfileStoreInterface
	media     services.MediaStoreInterface
	votes     services.VoteStoreInterface
	logger    providers.Logger
}

func NewMaintenance(scheduler kvstore.SchedulerInterface, profiles services.ProfileStoreInterface, media services.MediaStoreInterface, votes services.VoteStoreInterface, logger providers.Logger) *Maintenance {
	return &Maintenance{
		scheduler: scheduler,
		profiles:  profiles,
		media:     media,
		votes:     votes,
		logger:    logger,
	}
}

func (m *Maintenance) Reset(ctx context.Context, opts ResetOptions) error {
	if err := m.scheduler.Restore(); err != nil {
		m.logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}

	if opts.Profile {
		m.profiles.ResetProfile(ctx)
		m.logger.Infof(providers.TypeApp, "Profile reset")
	}
	if opts.Media {
		m.media.ClearAllMedia(ctx)
		m.logger.Infof(providers.TypeApp, "Media cleared")
	}
	if opts.Votes {
		m.votes.ClearVotes(ctx)
		m.logger.Infof(providers.TypeApp, "Votes cleared")
	}

	return m.scheduler.Persist()
}
