package rules

import "github.com/BitBrain19/Cyber/pkg/models"

// Engine applies detection rules to events.
type Engine interface {
	Apply(event *models.SecurityEvent) []models.IoaTag
}

// NoopEngine returns no tags.
type NoopEngine struct{}

// Apply returns an empty tag list.
func (n *NoopEngine) Apply(event *models.SecurityEvent) []models.IoaTag {
	return nil
}
