package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fitdeck/fitdeck/internal/auth"
	"github.com/fitdeck/fitdeck/internal/config"
	"github.com/fitdeck/fitdeck/internal/server"
	"github.com/fitdeck/fitdeck/internal/server/events"
	"github.com/fitdeck/fitdeck/internal/server/store"
	"github.com/fitdeck/fitdeck/internal/server/store/postgres"
	"github.com/fitdeck/fitdeck/internal/server/store/sqlite"
)

func main() {
	mint := flag.String("mint", "", "print a bearer token for this user id and exit")
	role := flag.String("role", "user", "role claim for --mint (admin, user, guest)")
	ttl := flag.Duration("ttl", 0, "token lifetime for --mint (0 never expires)")
	flag.Parse()

	cfg := config.LoadServer()
	authCfg := auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}

	if *mint != "" {
		token, err := auth.Mint(authCfg, *mint, *role, *ttl, time.Now())
		if err != nil {
			fmt.Fprintf(os.Stderr, "fitserver: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := openStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	var publisher events.Publisher = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		log.Printf("publishing writes to %s on %s", cfg.KafkaTopic, strings.Join(cfg.KafkaBrokers, ","))
	}
	defer publisher.Close()

	srv := server.New(server.Options{
		Store:        st,
		Events:       publisher,
		Auth:         authCfg,
		PhotoBaseURL: cfg.PhotoBaseURL,
	})

	httpServer := server.NewHTTPServer(server.HTTPConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, srv.Handler())

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("fitserver listening on %s", cfg.HTTPAddress)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

// openStore selects the backend from the DATABASE_URL scheme.
func openStore(ctx context.Context, databaseURL string) (store.Store, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		pool, err := pgxpool.New(ctx, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		pg := postgres.New(pool)
		if err := pg.Migrate(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return pg, nil
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite://"))
	default:
		return nil, fmt.Errorf("unsupported DATABASE_URL %q (want sqlite:// or postgres://)", databaseURL)
	}
}
