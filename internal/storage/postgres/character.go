package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ellyseum/LEmud-sub002/internal/game/character"
)

// ErrCharacterNotFound is returned when a character lookup yields no results.
var ErrCharacterNotFound = errors.New("character not found")

// ErrCharacterNameTaken is returned when creating a character with a name that
// already exists.
var ErrCharacterNameTaken = errors.New("character name already taken")

// CharacterRepository provides character persistence operations.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

const characterColumns = `id, name, location, max_hp, current_hp, experience,
	currency, in_combat, unconscious, created_at, updated_at`

func scanCharacter(row pgx.Row) (*character.Character, error) {
	var c character.Character
	err := row.Scan(
		&c.ID, &c.Name, &c.Location, &c.MaxHealth, &c.CurrentHealth,
		&c.Experience, &c.Currency, &c.InCombat, &c.Unconscious,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new character and returns it with ID and timestamps set.
//
// Precondition: c must pass Validate.
// Postcondition: Returns the created character with ID set, or
// ErrCharacterNameTaken on duplicate.
func (r *CharacterRepository) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	out, err := scanCharacter(r.db.QueryRow(ctx, `
		INSERT INTO characters
			(name, location, max_hp, current_hp, experience, currency,
			 in_combat, unconscious)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING `+characterColumns,
		c.Name, c.Location, c.MaxHealth, c.CurrentHealth,
		c.Experience, c.Currency, c.InCombat, c.Unconscious,
	))
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrCharacterNameTaken
		}
		return nil, fmt.Errorf("inserting character: %w", err)
	}
	return out, nil
}

// GetByID retrieves a character by its primary key.
//
// Precondition: id must be > 0.
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) GetByID(ctx context.Context, id int64) (*character.Character, error) {
	c, err := scanCharacter(r.db.QueryRow(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return c, nil
}

// GetByName retrieves a character by its unique name.
//
// Precondition: name must be non-empty.
// Postcondition: Returns the Character or ErrCharacterNotFound.
func (r *CharacterRepository) GetByName(ctx context.Context, name string) (*character.Character, error) {
	c, err := scanCharacter(r.db.QueryRow(ctx,
		`SELECT `+characterColumns+` FROM characters WHERE name = $1`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCharacterNotFound
		}
		return nil, fmt.Errorf("querying character by name: %w", err)
	}
	return c, nil
}

// SaveVitals flushes the combat-relevant character state: location, health,
// experience, currency, and the combat and unconscious flags. This is the
// persistence hook the combat engine fires after every state transition.
//
// Precondition: id must be > 0; location must be a valid room ID.
// Postcondition: Returns nil on success, ErrCharacterNotFound if no row
// was updated.
func (r *CharacterRepository) SaveVitals(ctx context.Context, id int64, location string, currentHP, experience, currency int, inCombat, unconscious bool) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE characters
		SET location = $2, current_hp = $3, experience = $4, currency = $5,
		    in_combat = $6, unconscious = $7, updated_at = NOW()
		WHERE id = $1`,
		id, location, currentHP, experience, currency, inCombat, unconscious,
	)
	if err != nil {
		return fmt.Errorf("saving character vitals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCharacterNotFound
	}
	return nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	// pgx wraps PostgreSQL errors; check for SQLSTATE 23505 (unique_violation)
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
