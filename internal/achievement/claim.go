package achievement

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/sandeepkv93/lifeboard/internal/clock"
	"github.com/sandeepkv93/lifeboard/internal/events"
	"github.com/sandeepkv93/lifeboard/internal/model"
	"github.com/sandeepkv93/lifeboard/internal/storage"
)

var ErrUnknownAchievement = errors.New("achievement: unknown achievement")

type Outcome string

const (
	OutcomeClaimed        Outcome = "claimed"
	OutcomeAlreadyClaimed Outcome = "already-claimed"
	OutcomeLocked         Outcome = "locked"
)

// Result is a successful claim attempt. Locked and already-claimed are
// results, not errors.
type Result struct {
	Outcome     Outcome
	Achievement Definition
	Notice      events.Notice
}

// ClaimStore persists claims.
type ClaimStore interface {
	GetUserAchievement(ctx context.Context, userID, achievementID string) (storage.UserAchievement, error)
	UpsertClaim(ctx context.Context, in storage.UserAchievement) error
}

type Claimer struct {
	store       ClaimStore
	tracker     *Tracker
	applier     *Applier
	clock       clock.Clock
	notices     *events.Bus[events.Notice]
	invalidated *events.Bus[events.AchievementsInvalidated]
	logger      *log.Logger
}

type ClaimerOptions struct {
	Store       ClaimStore
	Tracker     *Tracker
	Applier     *Applier
	Clock       clock.Clock
	Notices     *events.Bus[events.Notice]
	Invalidated *events.Bus[events.AchievementsInvalidated]
	Logger      *log.Logger
}

func NewClaimer(opts ClaimerOptions) *Claimer {
	c := &Claimer{
		store:       opts.Store,
		tracker:     opts.Tracker,
		applier:     opts.Applier,
		clock:       opts.Clock,
		notices:     opts.Notices,
		invalidated: opts.Invalidated,
		logger:      opts.Logger,
	}
	if c.clock == nil {
		c.clock = clock.Real()
	}
	if c.notices == nil {
		c.notices = events.NewBus[events.Notice]()
	}
	if c.invalidated == nil {
		c.invalidated = events.NewBus[events.AchievementsInvalidated]()
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard, "", 0)
	}
	return c
}

// ClaimID claims by id using the tracker's current progress.
func (c *Claimer) ClaimID(ctx context.Context, id model.AchievementID) (Result, error) {
	p, ok := c.tracker.Find(id)
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownAchievement, id)
	}
	return c.Claim(ctx, p)
}

// Claim persists a claim for an unlocked achievement, then applies its
// reward. Nothing changes when persistence fails.
func (c *Claimer) Claim(ctx context.Context, p Progress) (Result, error) {
	def := p.Definition
	if !p.Unlocked {
		return c.result(OutcomeLocked, def, events.LevelWarning,
			fmt.Sprintf("%s is locked: %d/%d. %s.", def.Name, p.Count, def.Target, def.Criteria)), nil
	}
	if p.Claimed || c.persistedClaim(ctx, def.ID) {
		return c.result(OutcomeAlreadyClaimed, def, events.LevelInfo,
			fmt.Sprintf("%s was already claimed.", def.Name)), nil
	}

	row := storage.UserAchievement{
		UserID:        c.tracker.UserID(),
		AchievementID: string(def.ID),
		Claimed:       true,
		UnlockedAt:    c.clock.Now(),
	}
	if err := c.store.UpsertClaim(ctx, row); err != nil {
		c.logger.Printf("achievement: claim %s: %v", def.ID, err)
		c.publish(events.LevelError, fmt.Sprintf("Could not claim %s: %v", def.Name, err))
		return Result{}, fmt.Errorf("achievement: claim %s: %w", def.ID, err)
	}

	c.tracker.MarkClaimed(def.ID)
	if c.applier != nil {
		c.applier.Apply(def.ID)
	}
	res := c.result(OutcomeClaimed, def, events.LevelSuccess,
		fmt.Sprintf("Claimed %s! Reward unlocked: %s.", def.Name, def.Reward))
	c.invalidated.Publish(events.AchievementsInvalidated{UserID: c.tracker.UserID()})
	return res, nil
}

// persistedClaim reports whether the store already holds a claimed row. A
// read error is logged and treated as unclaimed; the upsert is idempotent.
func (c *Claimer) persistedClaim(ctx context.Context, id model.AchievementID) bool {
	row, err := c.store.GetUserAchievement(ctx, c.tracker.UserID(), string(id))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			c.logger.Printf("achievement: read claim %s: %v", id, err)
		}
		return false
	}
	if row.Claimed {
		c.tracker.MarkClaimed(id)
	}
	return row.Claimed
}

func (c *Claimer) result(outcome Outcome, def Definition, level events.Level, text string) Result {
	n := c.publish(level, text)
	return Result{Outcome: outcome, Achievement: def, Notice: n}
}

func (c *Claimer) publish(level events.Level, text string) events.Notice {
	n := events.Notice{Level: level, Text: text, At: c.clock.Now()}
	c.notices.Publish(n)
	return n
}
