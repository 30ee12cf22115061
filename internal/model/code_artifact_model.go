package model

import (
	"time"

	"github.com/google/uuid"
)

type CodeArtifact struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChatSessionId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Markup        string    `gorm:"type:text;not null;default:''"`
	Stylesheet    string    `gorm:"type:text;not null;default:''"`
	GeneratedAt   time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}

func (CodeArtifact) TableName() string {
	return "code_artifacts"
}
