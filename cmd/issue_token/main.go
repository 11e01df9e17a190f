package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yungbote/collective-backend/internal/platform/envutil"
	"github.com/yungbote/collective-backend/internal/platform/logger"
	"github.com/yungbote/collective-backend/internal/services"
)

// issue_token prints a signed access token for an identity. It signs with
// JWT_SECRET_KEY and JWT_ISSUER, the same values the API server verifies.
func main() {
	var identity string
	var ttl time.Duration
	flag.StringVar(&identity, "identity", "", "identity to put in the token subject (required)")
	flag.DurationVar(&ttl, "ttl", 0, "token lifetime; defaults to ACCESS_TOKEN_TTL")
	flag.Parse()

	identity = strings.TrimSpace(identity)
	if identity == "" {
		fmt.Fprintln(os.Stderr, "-identity is required")
		flag.Usage()
		os.Exit(2)
	}
	secret := envutil.String("JWT_SECRET_KEY", "")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET_KEY is not set")
		os.Exit(1)
	}

	auth := services.NewAuthService(
		logger.Nop(),
		secret,
		envutil.String("JWT_ISSUER", "collective-backend"),
		envutil.Seconds("ACCESS_TOKEN_TTL", time.Hour),
	)
	if ttl <= 0 {
		ttl = auth.GetAccessTTL()
	}
	token, err := auth.IssueToken(identity, ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
