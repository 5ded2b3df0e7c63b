package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dinopark/internal/models"
	"dinopark/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*PostgresRepo, error) {
	const op = "storage.postgres.New"

	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse config: %w", op, err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30
	poolConfig.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create pool: %w", op, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: failed to ping database: %w", op, err)
	}

	return &PostgresRepo{pool: pool}, nil
}

// * UpsertUser сохраняет пользователя по идентификатору субъекта
func (r *PostgresRepo) UpsertUser(ctx context.Context, subject string) error {
	const op = "storage.postgres.UpsertUser"

	query := `
		INSERT INTO users (subject, created_at, last_login)
		VALUES ($1, NOW(), NOW())
		ON CONFLICT (subject) DO UPDATE SET last_login = NOW();
	`

	_, err := r.pool.Exec(ctx, query, subject)
	if err != nil {
		return fmt.Errorf("%s: failed to upsert user: %w", op, err)
	}

	return nil
}

func (r *PostgresRepo) User(ctx context.Context, subject string) (models.User, error) {
	query := `
		SELECT subject, created_at, last_login
		FROM users
		WHERE subject = $1;
	`

	row := r.pool.QueryRow(ctx, query, subject)

	var u models.User
	err := row.Scan(
		&u.Subject,
		&u.CreatedAt,
		&u.LastLogin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrUserNotFound
		}

		return models.User{}, err
	}

	return u, nil
}

func (r *PostgresRepo) SaveDinosaur(ctx context.Context, d models.Dinosaur) error {
	const op = "storage.postgres.SaveDinosaur"

	query := `
		INSERT INTO dinosaurs (id, name, weight, diet, user_id)
		VALUES ($1, $2, $3, $4, $5);
	`

	_, err := r.pool.Exec(ctx, query, d.ID, d.Name, d.Weight, d.Diet, d.UserID)
	if err != nil {
		return fmt.Errorf("%s: failed to save dinosaur: %w", op, err)
	}

	return nil
}

func (r *PostgresRepo) Dinosaur(ctx context.Context, id uuid.UUID) (models.Dinosaur, error) {
	query := `
		SELECT id, name, weight, diet, user_id
		FROM dinosaurs
		WHERE id = $1;
	`

	row := r.pool.QueryRow(ctx, query, id)

	var d models.Dinosaur
	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Weight,
		&d.Diet,
		&d.UserID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Dinosaur{}, storage.ErrDinosaurNotFound
		}

		return models.Dinosaur{}, err
	}

	return d, nil
}

func (r *PostgresRepo) Dinosaurs(ctx context.Context) ([]models.Dinosaur, error) {
	const op = "storage.postgres.Dinosaurs"

	query := `
		SELECT id, name, weight, diet, user_id
		FROM dinosaurs
		ORDER BY name;
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query dinosaurs: %w", op, err)
	}
	defer rows.Close()

	var dinos []models.Dinosaur

	for rows.Next() {
		var d models.Dinosaur

		err := rows.Scan(&d.ID, &d.Name, &d.Weight, &d.Diet, &d.UserID)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan row: %w", op, err)
		}

		dinos = append(dinos, d)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("%s: %w", op, rows.Err())
	}

	return dinos, nil
}

func (r *PostgresRepo) UpdateDinosaur(ctx context.Context, d models.Dinosaur) error {
	const op = "storage.postgres.UpdateDinosaur"

	query := `
		UPDATE dinosaurs
		SET name = $2, weight = $3, diet = $4
		WHERE id = $1;
	`

	tag, err := r.pool.Exec(ctx, query, d.ID, d.Name, d.Weight, d.Diet)
	if err != nil {
		return fmt.Errorf("%s: failed to update dinosaur: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrDinosaurNotFound
	}

	return nil
}

func (r *PostgresRepo) DeleteDinosaur(ctx context.Context, id uuid.UUID) error {
	const op = "storage.postgres.DeleteDinosaur"

	query := `DELETE FROM dinosaurs WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%s: failed to delete dinosaur: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return storage.ErrDinosaurNotFound
	}

	return nil
}

func (r *PostgresRepo) Close() {
	r.pool.Close()
}
