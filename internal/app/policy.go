package app

import "github.com/dkeye/CounselCall/internal/domain"

// RolePolicy decides which side of a one-to-one call creates the offer.
// Both sides must reach opposite answers for the same pair.
type RolePolicy interface {
	Offers(self, remote *domain.User) bool
}

// ClientOffers makes the client the offerer and the counselor the answerer.
// When both sides carry the same role the smaller user id offers.
type ClientOffers struct{}

func (ClientOffers) Offers(self, remote *domain.User) bool {
	if self.Role != remote.Role {
		return self.Role == domain.RoleClient
	}
	return self.ID < remote.ID
}
