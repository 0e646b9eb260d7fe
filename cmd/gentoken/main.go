package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/saturnino-fabrica-de-software/facefind/internal/auth"
	"github.com/saturnino-fabrica-de-software/facefind/internal/domain"
)

// Issues a gateway session token without going through the backend login,
// for scripts and local testing. Uses the same SESSION_SECRET as the gateway.
func main() {
	id := flag.Int("id", 1, "Backend user id")
	email := flag.String("email", "operator@facefind.local", "User email")
	role := flag.String("role", string(domain.RoleOperator), "User role: admin or operator")
	ttl := flag.Duration("ttl", time.Hour, "Token lifetime")
	flag.Parse()

	var cfg struct {
		SessionSecret string `envconfig:"SESSION_SECRET" required:"true"`
	}
	if err := envconfig.Process("", &cfg); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	r := domain.Role(*role)
	if r != domain.RoleAdmin && r != domain.RoleOperator {
		fmt.Fprintf(os.Stderr, "Error: invalid role %q\n", *role)
		os.Exit(1)
	}

	session, token, err := auth.NewIssuer(cfg.SessionSecret, *ttl).Issue(domain.User{
		ID:     *id,
		Email:  *email,
		Role:   r,
		Active: true,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	fmt.Printf("TOKEN=%s\nEXPIRES_AT=%s\n", token, session.ExpiresAt.Format(time.RFC3339))
}
