package gameserver

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ellyseum/LEmud-sub002/internal/game/character"
	"github.com/ellyseum/LEmud-sub002/internal/game/combat"
	"github.com/ellyseum/LEmud-sub002/internal/game/player"
)

// CharacterSaver is the slice of the character repository the combat
// persistence hook needs.
type CharacterSaver interface {
	SaveVitals(ctx context.Context, id int64, location string, currentHP, experience, currency int, inCombat, unconscious bool) error
}

// CharacterStore is the full character persistence surface the game server
// uses: login lookup, first-login creation, and vitals flushing.
type CharacterStore interface {
	CharacterSaver
	GetByName(ctx context.Context, name string) (*character.Character, error)
	Create(ctx context.Context, c *character.Character) (*character.Character, error)
}

// NewPersistFunc adapts a CharacterSaver into the combat engine's
// fire-and-forget persistence hook. The session's fields are captured before
// the write goroutine starts so later loop mutations cannot race the flush.
//
// Precondition: logger must be non-nil. A nil saver yields a no-op hook.
func NewPersistFunc(saver CharacterSaver, logger *zap.Logger) combat.PersistFunc {
	if saver == nil {
		return func(*player.Session) {}
	}
	return func(p *player.Session) {
		if p == nil || p.CharacterID == 0 {
			return
		}
		var (
			id          = p.CharacterID
			location    = p.RoomID
			currentHP   = p.CurrentHealth
			experience  = p.Experience
			currency    = p.Currency
			inCombat    = p.InCombat
			unconscious = p.Unconscious
		)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := saver.SaveVitals(ctx, id, location, currentHP, experience, currency, inCombat, unconscious); err != nil {
				logger.Warn("persisting character vitals failed",
					zap.Int64("character_id", id),
					zap.Error(err))
			}
		}()
	}
}
