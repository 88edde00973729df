package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartAclSweeper retries tombstoned circle cascades with interval.
// A tombstone is recorded when a circle-destroyed cascade fails mid-way;
// the sweeper re-runs the delete until no ACL entry references the circle,
// then clears the tombstone.
func StartAclSweeper(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				res, err := db.ExecContext(ctx, `
                    DELETE FROM acl
                     WHERE type = 'circle'
                       AND participant IN (SELECT circle_id FROM circle_tombstones)
                `)
				if err != nil {
					log.Error("failed to sweep circle acl entries", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("swept dangling circle acl entries", zap.Int64("removed", rows))
				}
				if _, err := db.ExecContext(ctx, `
                    DELETE FROM circle_tombstones
                     WHERE circle_id NOT IN (
                        SELECT participant FROM acl WHERE type = 'circle'
                     )
                `); err != nil {
					log.Error("failed to clear circle tombstones", zap.Error(err))
				}
			}
		}
	}()
}
