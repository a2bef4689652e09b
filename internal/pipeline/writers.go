package pipeline

import "github.com/BitBrain19/Cyber/pkg/models"

// VerdictWriter writes per-event verdicts.
type VerdictWriter interface {
	WriteVerdicts(verdicts []*models.Verdict) error
	Close() error
}

// PathWriter writes ranked attack paths.
type PathWriter interface {
	WritePaths(paths []*models.AttackPath) error
	Close() error
}
