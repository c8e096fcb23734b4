package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/tartampluch/go-plazos/internal/config"
	"github.com/zalando/go-keyring"
)

// feedPassword resolves the Basic Auth password for a feed user. The
// environment variable wins, so imports keep working on hosts without a
// keyring daemon.
func feedPassword(user string) string {
	if p := os.Getenv(config.EnvFeedPassword); p != "" {
		return p
	}
	if user == "" {
		return ""
	}

	p, err := keyring.Get(config.KeyringService, user)
	if err != nil {
		slog.Debug(config.MsgPassFail,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyUser, user,
			config.LogKeyError, err,
		)
		return ""
	}
	return p
}

// saveFeedPassword stores pass for user in the system keyring.
func saveFeedPassword(user, pass string) error {
	if user == "" {
		return errors.New(config.ErrKeyringUser)
	}
	if pass == "" {
		return errors.New(config.ErrKeyringPass)
	}
	if err := keyring.Set(config.KeyringService, user, pass); err != nil {
		return fmt.Errorf("%s: %w", config.ErrKeyringSave, err)
	}
	slog.Info(config.MsgPassSaved,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyUser, user,
	)
	return nil
}
