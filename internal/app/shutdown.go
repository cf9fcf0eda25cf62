package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"zoneh-archiver/internal/observability"
)

// GracefulShutdown возвращает context, отменяемый по SIGINT/SIGTERM, чтобы
// отложенное закрытие браузера успело отработать. Таймаута у прогона нет.
func GracefulShutdown(logger *observability.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	// Канал для сигналов ОС
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel() // Отменяем context при получении сигнала
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}
