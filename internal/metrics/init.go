package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Serve exposes the metrics endpoint on the given port until the context is done.
func Serve(ctx context.Context, port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		shutdown, cnl := context.WithTimeout(context.Background(), 5*time.Second)
		defer cnl()
		if err := srv.Shutdown(shutdown); err != nil {
			log.Error().Err(err).Msg("could not shut down metrics server")
		}
	}()

	go func() {
		log.Info().Int("port", port).Msg("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Int("port", port).Msg("metrics server failed")
		}
	}()
}
