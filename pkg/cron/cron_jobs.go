package cron

import (
	"context"
	"database/sql"
	"time"

	"chikwama_finance/pkg/utils"

	"github.com/robfig/cron/v3"
)

func StartCronJob(db *sql.DB) *cron.Cron {
	c := cron.New()

	// Runs daily at midnight — clear expired password reset tokens
	_, err := c.AddFunc("0 0 * * *", func() {
		err := CleanupExpiredResetTokens(db)
		if err != nil {
			utils.Logger.Errorf("Cron job failed to clean up reset tokens: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule reset token cleanup job: %v", err)
	}

	c.Start()
	utils.Logger.Info("Cron jobs started (reset token cleanup daily at midnight)")
	return c
}

// -------------------------------------------------------------
// Clear password reset tokens that are past their expiry
// -------------------------------------------------------------
func CleanupExpiredResetTokens(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := db.ExecContext(ctx, `
		UPDATE users
		SET password_reset_token = NULL, password_token_expires = NULL
		WHERE password_token_expires IS NOT NULL AND password_token_expires < ?
	`, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected > 0 {
		utils.Logger.Infof("Cleared %d expired password reset tokens", rowsAffected)
	}
	return nil
}
