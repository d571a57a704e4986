package timetable

import (
	"context"
	"log"
	"net/http"
	"time"
)

// StartServer serves the timetable API on the given address until the
// context is canceled.
func StartServer(ctx context.Context, addr string, p Provider) error {
	srv := &http.Server{Addr: addr, Handler: NewMux(p)}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("api server shutdown: %v", err)
		}
		cancel()
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
