package models_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/turtacn/adminauth/internal/domain/models"
)

func TestResolveAuthorities(t *testing.T) {
	tests := []struct {
		name         string
		role         string
		want         []string
		wantFallback bool
	}{
		{"empty role falls back", "", []string{"ROLE_ADMIN"}, true},
		{"blank role falls back", "   ", []string{"ROLE_ADMIN"}, true},
		{"lowercase role", "admin", []string{"ROLE_ADMIN"}, false},
		{"other role", "auditor", []string{"ROLE_AUDITOR"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, fallback := models.ResolveAuthorities(tt.role)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantFallback, fallback)
		})
	}
}

func TestPrincipal_HasAuthority(t *testing.T) {
	p := models.Principal{Identifier: "9999999999", Role: "support"}
	assert.True(t, p.HasAuthority("ROLE_SUPPORT"))
	assert.False(t, p.HasAuthority("ROLE_ADMIN"))
	assert.False(t, p.HasRoleFallback())

	unset := models.Principal{Identifier: "9999999999"}
	assert.True(t, unset.HasAuthority("ROLE_ADMIN"))
	assert.True(t, unset.HasRoleFallback())
}

func TestClaims_IsExpiredAt(t *testing.T) {
	issued := time.Unix(1_700_000_000, 0)
	c := models.NewClaims("9999999999", issued, time.Minute)

	assert.False(t, c.IsExpiredAt(issued))
	assert.False(t, c.IsExpiredAt(issued.Add(59*time.Second)))
	assert.True(t, c.IsExpiredAt(issued.Add(time.Minute)))
	assert.True(t, c.IsExpiredAt(issued.Add(time.Hour)))
	assert.True(t, (&models.Claims{}).IsExpiredAt(issued))
}

func TestNewClaims_RoundsExpiryUp(t *testing.T) {
	issued := time.Unix(1_700_000_000, 200_000_000)
	c := models.NewClaims("9999999999", issued, time.Second)

	assert.True(t, time.Unix(1_700_000_000, 0).Equal(c.IssuedAtTime()))
	assert.True(t, time.Unix(1_700_000_002, 0).Equal(c.ExpiresAtTime()))
	assert.False(t, c.IsExpiredAt(issued.Add(time.Second)))

	whole := models.NewClaims("9999999999", time.Unix(1_700_000_000, 0), time.Minute)
	assert.True(t, time.Unix(1_700_000_060, 0).Equal(whole.ExpiresAtTime()))
}

func TestIdentityContext(t *testing.T) {
	_, ok := models.IdentityFromContext(context.Background())
	assert.False(t, ok)

	identity := models.NewAuthenticatedIdentity(models.Principal{Identifier: "9999999999"}, time.Now())
	ctx := models.WithIdentity(context.Background(), identity)

	got, ok := models.IdentityFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, "9999999999", got.Identifier())
	assert.True(t, got.HasAuthority("ROLE_ADMIN"))
}
