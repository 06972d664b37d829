// Package services – AccountService
//
// This file implements AccountService, which handles sign-out. Signing out
// stops the sync loop, removes the user's local UI state, drops every cached
// query result and, when asked, discards the pending outbox. Entity rows stay
// on the device.
package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/go-fitness-sync/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// SyncSwitch turns the sync processor on and off.
type SyncSwitch interface {
	SetEnabled(on bool)
}

// QueueClearer empties the outbox.
type QueueClearer interface {
	Clear(ctx context.Context) (int64, error)
}

// SignOutResult reports what SignOut removed.
type SignOutResult struct {
	UIStateCleared int64 `json:"ui_state_cleared"`
	CacheEvicted   int   `json:"cache_evicted"`
	QueueDiscarded int64 `json:"queue_discarded"`
}

// AccountService coordinates account lifecycle across components.
type AccountService struct {
	Store Store
	Sync  SyncSwitch
	Queue QueueClearer
	Cache Invalidator
}

// NewAccountService constructs an AccountService.
func NewAccountService(store Store, sync SyncSwitch, q QueueClearer, c Invalidator) *AccountService {
	return &AccountService{Store: store, Sync: sync, Queue: q, Cache: c}
}

// SignOut disables sync, clears userID's UI state and the whole query cache,
// and, with wipeQueue, discards every pending outbox item. Unsynced changes
// are lost when the queue is wiped.
func (s *AccountService) SignOut(ctx context.Context, userID string, wipeQueue bool) (SignOutResult, error) {
	tr := otel.Tracer("services/AccountService")
	ctx, span := tr.Start(ctx, "SignOut",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Bool("wipe_queue", wipeQueue),
		),
	)
	defer span.End()

	var res SignOutResult
	if userID == "" {
		return res, ErrNoUser
	}
	if s.Sync != nil {
		s.Sync.SetEnabled(false)
	}

	db, err := s.Store.DB()
	if err != nil {
		return res, err
	}
	n, err := repo.ClearUIState(ctx, db, userID)
	if err != nil {
		return res, err
	}
	res.UIStateCleared = n

	if s.Cache != nil {
		res.CacheEvicted = s.Cache.Invalidate("")
	}

	if wipeQueue && s.Queue != nil {
		n, err := s.Queue.Clear(ctx)
		if err != nil {
			return res, err
		}
		res.QueueDiscarded = n
	}

	log.Info().
		Str("user_id", userID).
		Int64("ui_state_cleared", res.UIStateCleared).
		Int("cache_evicted", res.CacheEvicted).
		Int64("queue_discarded", res.QueueDiscarded).
		Msg("signed_out")
	return res, nil
}

// SignIn re-enables sync for a signed-in user.
func (s *AccountService) SignIn(ctx context.Context, userID string) error {
	tr := otel.Tracer("services/AccountService")
	_, span := tr.Start(ctx, "SignIn", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	if userID == "" {
		return ErrNoUser
	}
	if s.Sync != nil {
		s.Sync.SetEnabled(true)
	}
	log.Info().Str("user_id", userID).Msg("signed_in")
	return nil
}

// PutUIState stores one UI state value for userID.
func (s *AccountService) PutUIState(ctx context.Context, userID, key, value string) error {
	if userID == "" {
		return ErrNoUser
	}
	if key == "" {
		return ErrInvalidInput
	}
	db, err := s.Store.DB()
	if err != nil {
		return err
	}
	return repo.PutUIState(ctx, db, userID, key, value)
}

// GetUIState returns one UI state value, ErrNotFound when unset.
func (s *AccountService) GetUIState(ctx context.Context, userID, key string) (string, error) {
	if userID == "" {
		return "", ErrNoUser
	}
	db, err := s.Store.DB()
	if err != nil {
		return "", err
	}
	v, err := repo.GetUIState(ctx, db, userID, key)
	if err != nil {
		return "", translate(err)
	}
	return v, nil
}
