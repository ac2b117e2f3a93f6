package chain

import (
	"context"
	"errors"
	"time"

	"github.com/dtroode/recoveryd/internal/model"
)

// Run produces a block every block interval until ctx is done. It returns
// the first invariant violation raised by deferred work.
func (l *Ledger) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.cfg.BlockInterval)
	defer ticker.Stop()

	l.logger.Info("Ledger: block production started",
		"chain_id", l.cfg.ChainID,
		"block_interval", l.cfg.BlockInterval)

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Ledger: block production stopped")
			return nil
		case <-ticker.C:
			_, err := l.ProduceBlock(ctx, 0)
			if errors.Is(err, model.ErrInvariantViolation) {
				return err
			}
			if err != nil {
				l.logger.Warn("Ledger: failed to produce block",
					"error", err.Error())
			}
		}
	}
}
