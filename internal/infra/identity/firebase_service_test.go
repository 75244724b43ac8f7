package identity

import (
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"

	"github.com/stretchr/testify/assert"
)

func TestMapSignInError(t *testing.T) {
	tests := []struct {
		code string
		want error
	}{
		{code: "EMAIL_NOT_FOUND", want: domainerrors.ErrNotFound},
		{code: "INVALID_PASSWORD", want: domainerrors.ErrInvalidCredentials},
		{code: "INVALID_LOGIN_CREDENTIALS", want: domainerrors.ErrInvalidCredentials},
		{code: "TOO_MANY_ATTEMPTS_TRY_LATER : Access to this account has been temporarily disabled", want: domainerrors.ErrRateLimited},
		{code: "USER_DISABLED", want: domainerrors.ErrForbidden},
		{code: "SOMETHING_ELSE", want: domainerrors.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := mapSignInError(tt.code)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSessionBroadcaster_SubscribeAndBroadcast(t *testing.T) {
	b := newSessionBroadcaster()

	var seen []*entity.Identity
	unsubscribe := b.subscribe(func(id *entity.Identity) {
		seen = append(seen, id)
	})

	b.broadcast(nil)
	b.broadcast(&entity.Identity{UID: "u-1"})

	assert.Len(t, seen, 2)
	assert.Nil(t, seen[0])
	assert.Equal(t, "u-1", seen[1].UID)

	unsubscribe()
	b.broadcast(&entity.Identity{UID: "u-2"})

	assert.Len(t, seen, 2, "observer must not fire after release")
}

func TestSessionBroadcaster_UnsubscribeIsSafeTwice(t *testing.T) {
	b := newSessionBroadcaster()

	calls := 0
	unsubscribe := b.subscribe(func(*entity.Identity) { calls++ })

	unsubscribe()
	unsubscribe()

	b.broadcast(nil)
	assert.Zero(t, calls)
}
