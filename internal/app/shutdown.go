package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Shutdown gracefully shuts down the application: stop accepting
// traffic, drain the dispatcher, then release the pool.
func (a *App) Shutdown() error {
	a.logger.Info("application-shutting-down")

	a.healthChecker.SetReady(false)

	// Cancel context to signal all components
	a.cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http-server-shutdown-error", zap.Error(err))
	}

	if a.dispatcher != nil {
		a.dispatcher.Stop()
	}

	if a.kafkaSink != nil {
		if err := a.kafkaSink.Close(); err != nil {
			a.logger.Error("kafka-sink-close-error", zap.Error(err))
		}
	}

	if a.priceCache != nil {
		a.priceCache.Close()
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("database-close-error", zap.Error(err))
		}
	}

	// Wait for all goroutines
	a.wg.Wait()

	a.logger.Info("application-shutdown-complete")

	return nil
}
