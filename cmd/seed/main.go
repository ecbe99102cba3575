package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-places-api/config"
	"github.com/oksasatya/go-places-api/internal/domain/entity"
	"github.com/oksasatya/go-places-api/internal/domain/repository"
	pginfra "github.com/oksasatya/go-places-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-places-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolConfig{MaxConns: 2, MaxConnLife: cfg.DBMaxConnLife, AppName: cfg.AppName + "-seed"})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	tx := pginfra.NewTransactor(pool)

	email := "demo@example.com"
	password := "password123"
	name := "demoUser"

	u, err := users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		hash, herr := helpers.NewBcryptHasher(0).Hash(password)
		if herr != nil {
			log.Fatalf("failed to hash password: %v", herr)
		}
		u = &entity.User{Name: name, Email: email, Password: hash, ImagePath: cfg.UploadDir + "/seed-user.png"}
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("failed to seed user: %v", err)
		}
	case err != nil:
		log.Fatalf("failed to look up user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s name=%s password=%s\n", u.ID, email, u.Name, password)

	if len(u.Places) > 0 {
		fmt.Println("user already has places; skipping place seed")
		return
	}

	p := &entity.Place{
		CreatorID:   u.ID,
		Title:       "Empire State Building",
		Description: "One of the most famous sky scrapers in the world",
		Address:     "20 W 34th St, New York, NY 10001",
		ImagePath:   cfg.UploadDir + "/seed-place.png",
		Location:    entity.Location{Lat: 40.7484405, Long: -73.9878531},
	}
	err = tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Places.Create(ctx, p); err != nil {
			return err
		}
		return repos.Users.AddPlace(ctx, u.ID, p.ID)
	})
	if err != nil {
		log.Fatalf("failed to seed place: %v", err)
	}
	fmt.Printf("seeded place: id=%s title=%s\n", p.ID, p.Title)
}
