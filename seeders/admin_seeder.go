package seeders

import (
	"context"
	"errors"
	"fmt"

	"solarforyou/internal/authz"
	"solarforyou/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func seedAdmin(ctx context.Context, db *pgxpool.Pool, opts AdminOptions, logger *zap.Logger) error {
	if opts.Username == "" || opts.Password == "" {
		return fmt.Errorf("не заданы имя пользователя или пароль администратора")
	}

	hashedPassword, err := utils.HashPassword(opts.Password)
	if err != nil {
		return err
	}

	return pgx.BeginFunc(ctx, db, func(tx pgx.Tx) error {
		var userID uint64
		err := tx.QueryRow(ctx, "SELECT id FROM users WHERE username = $1", opts.Username).Scan(&userID)
		switch {
		case err == nil:
			logger.Info("Пользователь уже существует, обновляем привилегии", zap.Uint64("userID", userID))
		case errors.Is(err, pgx.ErrNoRows):
			err = tx.QueryRow(ctx,
				`INSERT INTO users (username, password_hash, first_name, last_name, email, is_staff, is_active)
				 VALUES ($1, $2, 'Administrator', '', $3, TRUE, TRUE) RETURNING id`,
				opts.Username, hashedPassword, opts.Email,
			).Scan(&userID)
			if err != nil {
				return fmt.Errorf("создание пользователя: %w", err)
			}
		default:
			return err
		}

		var profileID uint64
		err = tx.QueryRow(ctx,
			`INSERT INTO user_profiles (user_id, status) VALUES ($1, 'active')
			 ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW() RETURNING id`,
			userID,
		).Scan(&profileID)
		if err != nil {
			return fmt.Errorf("создание профиля: %w", err)
		}

		for _, p := range authz.Catalogue {
			if _, err := tx.Exec(ctx,
				"INSERT INTO user_privileges (profile_id, privilege) VALUES ($1, $2) ON CONFLICT DO NOTHING",
				profileID, p.Code,
			); err != nil {
				return fmt.Errorf("привилегия %s: %w", p.Code, err)
			}
		}
		logger.Info("Администратор готов", zap.Uint64("userID", userID), zap.Int("privileges", len(authz.Catalogue)))
		return nil
	})
}
