package utils

import (
	"github.com/google/uuid"
)

// GenerateID returns a new time-ordered identifier. Bid IDs sort in
// submission order, which keeps ledger listings readable.
func GenerateID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
