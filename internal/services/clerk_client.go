package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/user"

	"github.com/studypulse/checkin-backend/internal/models"
)

// ClerkClient reads user profiles from the Clerk backend API.
type ClerkClient struct {
	users *user.Client
}

// NewClerkClient builds a client for the given secret key. baseURL is the API
// host without the version segment; empty means the public Clerk API.
func NewClerkClient(baseURL, secretKey string) *ClerkClient {
	cfg := &clerk.ClientConfig{}
	cfg.Key = clerk.String(secretKey)
	cfg.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	if baseURL != "" {
		cfg.URL = clerk.String(strings.TrimRight(baseURL, "/"))
	}
	return &ClerkClient{users: user.NewClient(cfg)}
}

func (c *ClerkClient) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	u, err := c.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch clerk user: %w", err)
	}
	return profileFromClerkUser(u), nil
}

// profileFromClerkUser flattens a Clerk user. Email prefers the primary
// address, then the first one; empty values become nil.
func profileFromClerkUser(u *clerk.User) *models.Profile {
	var p models.Profile

	if u.PrimaryEmailAddressID != nil {
		for _, e := range u.EmailAddresses {
			if e != nil && e.ID == *u.PrimaryEmailAddressID && e.EmailAddress != "" {
				p.Email = strPtr(e.EmailAddress)
				break
			}
		}
	}
	if p.Email == nil && len(u.EmailAddresses) > 0 && u.EmailAddresses[0] != nil && u.EmailAddresses[0].EmailAddress != "" {
		p.Email = strPtr(u.EmailAddresses[0].EmailAddress)
	}

	var parts []string
	for _, s := range []*string{u.FirstName, u.LastName} {
		if s != nil && *s != "" {
			parts = append(parts, *s)
		}
	}
	if len(parts) > 0 {
		p.FullName = strPtr(strings.Join(parts, " "))
	}

	if u.ImageURL != nil && *u.ImageURL != "" {
		p.AvatarURL = strPtr(*u.ImageURL)
	}
	return &p
}

func strPtr(s string) *string {
	return &s
}
