package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCartNormalize_RecomputesSubtotalsAndTotal(t *testing.T) {
	cart := &Cart{
		UID: "u-1",
		Items: []LineItem{
			{ProductID: 1, Quantity: 2, UnitPrice: decimal.RequireFromString("99.99")},
			{ProductID: 2, Quantity: 1, UnitPrice: decimal.RequireFromString("199.99")},
		},
		// A stale total must never survive Normalize.
		Total: decimal.RequireFromString("1.00"),
	}

	cart.Normalize()

	assert.True(t, cart.Items[0].Subtotal.Equal(decimal.RequireFromString("199.98")))
	assert.True(t, cart.Items[1].Subtotal.Equal(decimal.RequireFromString("199.99")))
	assert.True(t, cart.Total.Equal(decimal.RequireFromString("399.97")))
	assert.True(t, cart.Total.Equal(TotalOf(cart.Items)))
}

func TestEmptyCart(t *testing.T) {
	cart := EmptyCart("u-1")

	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.Total.IsZero())
	assert.NotNil(t, cart.Items, "empty means zero items, not an absent list")
}

func TestUserProfileConsistent(t *testing.T) {
	tests := []struct {
		name    string
		profile UserProfile
		want    bool
	}{
		{
			name:    "company with company fields",
			profile: UserProfile{Role: RoleCompany, Company: &CompanyProfile{}},
			want:    true,
		},
		{
			name:    "admin with permissions",
			profile: UserProfile{Role: RoleAdmin, Permissions: &AdminPermissions{}},
			want:    true,
		},
		{
			name:    "company carrying permissions",
			profile: UserProfile{Role: RoleCompany, Company: &CompanyProfile{}, Permissions: &AdminPermissions{}},
			want:    false,
		},
		{
			name:    "admin without permissions",
			profile: UserProfile{Role: RoleAdmin},
			want:    false,
		},
		{
			name:    "unknown role",
			profile: UserProfile{Role: Role("owner"), Company: &CompanyProfile{}},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.profile.Consistent())
		})
	}
}
