package app

import (
	"fmt"
	"log"
	"time"

	"github.com/fitdeck/fitdeck/internal/auth"
	"github.com/fitdeck/fitdeck/internal/config"
	"github.com/fitdeck/fitdeck/internal/gateway"
)

// newGateway picks the remote implementation for cfg. Without credentials
// the client runs signed out against gateway.Unavailable.
func newGateway(cfg config.Config, now func() time.Time) (gateway.Gateway, error) {
	token := cfg.Token
	if token == "" && cfg.JWTSecret != "" && cfg.User != "" {
		minted, err := auth.Mint(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}, cfg.User, "", 0, now())
		if err != nil {
			return nil, fmt.Errorf("mint token: %w", err)
		}
		token = minted
	}
	if token == "" {
		log.Printf("no credentials configured; running signed out")
		return gateway.Unavailable{}, nil
	}

	client, err := gateway.NewClient(cfg.APIURL, token)
	if err != nil {
		return nil, fmt.Errorf("init gateway client: %w", err)
	}
	return client, nil
}
