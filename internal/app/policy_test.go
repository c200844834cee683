package app

import (
	"testing"

	"github.com/dkeye/CounselCall/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestClientOffers(t *testing.T) {
	client := &domain.User{ID: "zz", Role: domain.RoleClient}
	counselor := &domain.User{ID: "aa", Role: domain.RoleCounselor}

	var p RolePolicy = ClientOffers{}
	assert.True(t, p.Offers(client, counselor))
	assert.False(t, p.Offers(counselor, client))
}

func TestClientOffersSameRole(t *testing.T) {
	a := &domain.User{ID: "a", Role: domain.RoleCounselor}
	b := &domain.User{ID: "b", Role: domain.RoleCounselor}

	p := ClientOffers{}
	assert.True(t, p.Offers(a, b))
	assert.False(t, p.Offers(b, a), "exactly one side offers")
}
