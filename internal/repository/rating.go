package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gomokuhq/gomoku-backend/internal/entity"
)

// RatingRepository persists leaderboard rows, keyed by participant name.
type RatingRepository interface {
	GetOrCreate(ctx context.Context, name string, kind entity.ParticipantKind) (*entity.PlayerRating, error)
	Update(ctx context.Context, rating *entity.PlayerRating) error
	List(ctx context.Context, limit int) ([]*entity.PlayerRating, error)
}

const initialRating = 1200

type ratingRepository struct {
	conn *sql.DB
}

func NewRatingRepository(conn *sql.DB) RatingRepository {
	return &ratingRepository{
		conn: conn,
	}
}

func (that *ratingRepository) GetOrCreate(ctx context.Context, name string, kind entity.ParticipantKind) (*entity.PlayerRating, error) {
	query := `SELECT name, kind, rating, wins, losses, draws, created_at FROM ratings WHERE name = ?`

	var rating entity.PlayerRating
	var createdAt int64

	err := that.conn.QueryRowContext(ctx, query, name).
		Scan(&rating.Name, &rating.Kind, &rating.Rating, &rating.Wins, &rating.Losses, &rating.Draws, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return that.create(ctx, name, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("can't find rating: %w", err)
	}

	rating.CreatedAt = time.UnixMilli(createdAt).UTC()

	return &rating, nil
}

func (that *ratingRepository) create(ctx context.Context, name string, kind entity.ParticipantKind) (*entity.PlayerRating, error) {
	rating := &entity.PlayerRating{
		Name:      name,
		Kind:      kind,
		Rating:    initialRating,
		CreatedAt: time.Now().UTC(),
	}

	query := `INSERT INTO ratings (name, kind, rating, wins, losses, draws, created_at) VALUES (?, ?, ?, 0, 0, 0, ?)`

	_, err := that.conn.ExecContext(ctx, query, rating.Name, rating.Kind, rating.Rating, rating.CreatedAt.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("can't save rating: %w", err)
	}

	return rating, nil
}

func (that *ratingRepository) Update(ctx context.Context, rating *entity.PlayerRating) error {
	query := `UPDATE ratings SET rating = ?, wins = ?, losses = ?, draws = ? WHERE name = ?`

	_, err := that.conn.ExecContext(ctx, query, rating.Rating, rating.Wins, rating.Losses, rating.Draws, rating.Name)
	if err != nil {
		return fmt.Errorf("can't update rating: %w", err)
	}

	return nil
}

func (that *ratingRepository) List(ctx context.Context, limit int) ([]*entity.PlayerRating, error) {
	query := `SELECT name, kind, rating, wins, losses, draws, created_at FROM ratings ORDER BY rating DESC LIMIT ?`

	rows, err := that.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("can't list ratings: %w", err)
	}
	defer rows.Close()

	var ratings []*entity.PlayerRating

	for rows.Next() {
		var rating entity.PlayerRating
		var createdAt int64

		if err = rows.Scan(&rating.Name, &rating.Kind, &rating.Rating, &rating.Wins, &rating.Losses, &rating.Draws, &createdAt); err != nil {
			return nil, fmt.Errorf("can't scan rating: %w", err)
		}

		rating.CreatedAt = time.UnixMilli(createdAt).UTC()
		ratings = append(ratings, &rating)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read ratings: %w", err)
	}

	return ratings, nil
}
