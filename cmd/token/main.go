package main

import (
	"fmt"
	"os"

	"logi-events/config"
	"logi-events/internal/auth"
	"logi-events/internal/model"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
)

// 產生測試用 JWT，例如：go run ./cmd/token --user-id <uuid> --role admin
func main() {
	envFile := pflag.String("env-file", ".env", "path to an optional .env file")
	userID := pflag.String("user-id", "", "user id (uuid)")
	role := pflag.String("role", string(model.RoleUser), "user, admin or god")
	pflag.Parse()

	if err := config.LoadEnvFile(*envFile); err != nil {
		fmt.Fprintln(os.Stderr, "load env file:", err)
		os.Exit(1)
	}
	cfg := config.GetAuthConfig()

	id, err := uuid.Parse(*userID)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid --user-id:", err)
		os.Exit(2)
	}

	switch model.Role(*role) {
	case model.RoleUser, model.RoleAdmin, model.RoleGod:
	default:
		fmt.Fprintln(os.Stderr, "invalid --role:", *role)
		os.Exit(2)
	}

	token, err := auth.NewGuard(cfg.JWTSecret, cfg.TokenTTL).Issue(id, model.Role(*role))
	if err != nil {
		fmt.Fprintln(os.Stderr, "issue token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
