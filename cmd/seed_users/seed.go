package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/oceandatatools/sealog-relay/pkg/sealog"
	apiusers "github.com/oceandatatools/sealog-relay/pkg/sealog/api/users"
)

var ErrInvalidSeed = fmt.Errorf("seed_users: invalid seed file")

// SeedUser is one account to ensure on the server.
type SeedUser struct {
	Username string   `yaml:"username"`
	FullName string   `yaml:"fullname"`
	Email    string   `yaml:"email"`
	Password string   `yaml:"password"`
	Roles    []string `yaml:"roles"`
}

// LoadSeed reads the seed file, a YAML list under a "users" key.
func LoadSeed(filepath string) ([]SeedUser, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return UnmarshalSeed(content)
}

func UnmarshalSeed(content []byte) ([]SeedUser, error) {
	raw := struct {
		Users []SeedUser `yaml:"users"`
	}{}
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, err
	}

	if len(raw.Users) == 0 {
		return nil, fmt.Errorf("%w: no users", ErrInvalidSeed)
	}
	seen := map[string]bool{}
	for _, user := range raw.Users {
		if user.Username == "" {
			return nil, fmt.Errorf("%w: a user has no username", ErrInvalidSeed)
		}
		if seen[user.Username] {
			return nil, fmt.Errorf("%w: duplicated username %s", ErrInvalidSeed, user.Username)
		}
		seen[user.Username] = true
	}
	return raw.Users, nil
}

// Seed creates the accounts missing on the server. Accounts already
// there are left untouched, so running twice is safe.
//
// It returns the usernames it created.
func Seed(
	ctx context.Context, client sealog.Client, seed []SeedUser, logger *log.Logger,
) ([]string, error) {
	existing, err := client.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	known := map[string]bool{}
	for _, user := range existing {
		known[user.Username] = true
	}

	created := []string{}
	for _, user := range seed {
		if known[user.Username] {
			logger.Printf("user %s is already there, skipped", user.Username)
			continue
		}
		if _, err := client.CreateUser(ctx, apiusers.User{
			Username: user.Username,
			FullName: user.FullName,
			Email:    user.Email,
			Password: user.Password,
			Roles:    user.Roles,
		}); err != nil {
			return created, fmt.Errorf("can not create user %s: %w", user.Username, err)
		}
		logger.Printf("created user %s", user.Username)
		created = append(created, user.Username)
	}
	return created, nil
}
