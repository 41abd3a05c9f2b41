package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tatianab/xjtu-sim/internal/achievement"
	"github.com/tatianab/xjtu-sim/internal/models"
)

const (
	DefaultSlot = "current"

	keyGameState       = "game_state"
	keyTriggeredEvents = "triggered_events"
	keyAchievements    = "meta/achievements"
	keyStats           = "meta/achievement_stats"
)

// Repository maps the game's records onto a Store. Playthrough records live
// under the slot name; achievements and their statistics are shared by all
// slots.
//
// Loaders never fail. A missing or unreadable record is logged and reported
// as absent so the caller starts from defaults.
type Repository struct {
	store  Store
	slot   string
	logger *slog.Logger
}

func NewRepository(s Store, slot string, logger *slog.Logger) *Repository {
	if slot == "" {
		slot = DefaultSlot
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{store: s, slot: slot, logger: logger}
}

func (r *Repository) Slot() string { return r.slot }

func (r *Repository) slotKey(name string) string {
	return r.slot + "/" + name
}

func (r *Repository) put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := r.store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// get decodes key into v and reports whether a usable record was found.
func (r *Repository) get(ctx context.Context, key string, v any) bool {
	data, err := r.store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false
	}
	if err != nil {
		r.logger.Warn("save record unreadable", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		r.logger.Warn("save record corrupt", "key", key, "error", err)
		return false
	}
	return true
}

func (r *Repository) SaveState(ctx context.Context, st *models.PlayerState) error {
	return r.put(ctx, r.slotKey(keyGameState), st)
}

func (r *Repository) LoadState(ctx context.Context) (*models.PlayerState, bool) {
	var st models.PlayerState
	if !r.get(ctx, r.slotKey(keyGameState), &st) {
		return nil, false
	}
	if st.Year == 0 || st.Month == 0 {
		r.logger.Warn("save record incomplete", "key", r.slotKey(keyGameState))
		return nil, false
	}
	return &st, true
}

// ClearState removes the playthrough records of the slot. Achievements are
// kept.
func (r *Repository) ClearState(ctx context.Context) error {
	for _, k := range []string{keyGameState, keyTriggeredEvents} {
		if err := r.store.Delete(ctx, r.slotKey(k)); err != nil {
			return fmt.Errorf("delete %s: %w", r.slotKey(k), err)
		}
	}
	return nil
}

func (r *Repository) SaveTriggered(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	return r.put(ctx, r.slotKey(keyTriggeredEvents), ids)
}

func (r *Repository) LoadTriggered(ctx context.Context) []string {
	var ids []string
	r.get(ctx, r.slotKey(keyTriggeredEvents), &ids)
	return ids
}

func (r *Repository) SaveAchievements(ctx context.Context, unlocked map[string]bool) error {
	return r.put(ctx, keyAchievements, unlocked)
}

func (r *Repository) LoadAchievements(ctx context.Context) map[string]bool {
	var unlocked map[string]bool
	if !r.get(ctx, keyAchievements, &unlocked) {
		return map[string]bool{}
	}
	return unlocked
}

func (r *Repository) SaveStats(ctx context.Context, s *achievement.Stats) error {
	return r.put(ctx, keyStats, s)
}

// LoadStats returns nil when no usable record exists.
func (r *Repository) LoadStats(ctx context.Context) *achievement.Stats {
	data, err := r.store.Get(ctx, keyStats)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.logger.Warn("save record unreadable", "key", keyStats, "error", err)
		}
		return nil
	}
	s, err := achievement.DecodeStats(data)
	if err != nil {
		r.logger.Warn("save record corrupt", "key", keyStats, "error", err)
		return nil
	}
	return s
}

// Slots lists the slot names holding a saved game.
func (r *Repository) Slots(ctx context.Context) ([]string, error) {
	keys, err := r.store.List(ctx, "")
	if err != nil {
		return nil, err
	}
	slots := []string{}
	for _, k := range keys {
		slot, name, ok := strings.Cut(k, "/")
		if ok && slot != "meta" && name == keyGameState {
			slots = append(slots, slot)
		}
	}
	return slots, nil
}
