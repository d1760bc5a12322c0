package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/gimmeapp/auth-service/config"
	"github.com/gimmeapp/auth-service/internal/domain/entity"
	repo "github.com/gimmeapp/auth-service/internal/domain/repository"
	pginfra "github.com/gimmeapp/auth-service/internal/infrastructure/postgres"
	"github.com/gimmeapp/auth-service/pkg/helpers"
)

// Seeds one active demo account with a kakao link and one pending account,
// skipping anything already present.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	repos := pginfra.NewManager(pool)
	users := repos.Users()

	now := time.Now()
	seeds := []struct {
		draft        repo.UserDraft
		social       *repo.SocialDraft
		verification repo.VerificationDraft
	}{
		{
			draft: repo.UserDraft{
				UUID:          helpers.GenUserUUID(),
				Username:      "demo-active",
				Email:         "demo-active@example.com",
				CountryCode:   "KR",
				AccountStatus: entity.StatusActive,
				LastLoginAt:   &now,
			},
			social:       &repo.SocialDraft{Provider: entity.ProviderKakao, ProviderID: "seed-kakao-1"},
			verification: repo.VerificationDraft{EmailVerified: true, EmailVerifiedAt: &now},
		},
		{
			draft: repo.UserDraft{
				UUID:          helpers.GenUserUUID(),
				Username:      "demo-pending",
				Email:         "demo-pending@example.com",
				AccountStatus: entity.StatusPending,
			},
		},
	}

	for _, s := range seeds {
		existing, err := users.FindByEmail(ctx, s.draft.Email)
		if err != nil {
			log.Fatalf("lookup %s: %v", s.draft.Email, err)
		}
		if existing != nil {
			fmt.Printf("skipping %s: already seeded (id=%d)\n", s.draft.Email, existing.ID)
			continue
		}
		u, err := users.CreateUserWithVerification(ctx, s.draft, s.social, s.verification)
		if err != nil {
			log.Fatalf("seed %s: %v", s.draft.Email, err)
		}
		fmt.Printf("seeded %s: id=%d uuid=%s status=%s\n", u.Email, u.ID, u.UUID, u.AccountStatus)
	}
}
