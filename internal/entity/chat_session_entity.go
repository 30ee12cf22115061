package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatSession is a named playground conversation owned by one user.
// IsActive turns false once the session is soft-deleted.
type ChatSession struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
