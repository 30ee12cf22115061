package entity

import (
	"time"

	"github.com/google/uuid"
)

// CodeArtifact is the latest generated component of a session. There is at most one
// per session and it is always replaced as a whole.
type CodeArtifact struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Markup        string
	Stylesheet    string
	GeneratedAt   time.Time
}

func (a *CodeArtifact) IsEmpty() bool {
	return a == nil || (a.Markup == "" && a.Stylesheet == "")
}
