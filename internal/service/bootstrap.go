package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bookmeup/bookmeup-server/internal/domain"
	"github.com/bookmeup/bookmeup-server/internal/id"
	"github.com/bookmeup/bookmeup-server/internal/store"
)

// Bootstrap provisions the default owner for single-user deployments.
// It is idempotent: an existing user with the given username is reused.
func Bootstrap(ctx context.Context, st store.Store, username string, logger *slog.Logger) (*domain.User, error) {
	if username == "" {
		return nil, nil
	}

	user, err := st.GetUserByUsername(ctx, username)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	userID, err := id.Generate("usr")
	if err != nil {
		return nil, err
	}
	user = &domain.User{
		ID:        userID,
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}

	if err := st.CreateUser(ctx, user); err != nil {
		// Lost a race with a concurrent bootstrap; read the winner.
		if errors.Is(err, store.ErrAlreadyExists) {
			return st.GetUserByUsername(ctx, username)
		}
		return nil, err
	}

	logger.Info("default owner provisioned", "user_id", user.ID, "username", username)
	return user, nil
}
