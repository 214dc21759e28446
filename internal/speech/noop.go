package speech

import (
	"github.com/hammamikhairi/bigbite/internal/domain"
	"github.com/hammamikhairi/bigbite/internal/logger"
)

// Compile-time interface check.
var _ domain.Narrator = (*Silent)(nil)

// Silent is a narrator that does nothing. Used when speech is disabled.
type Silent struct {
	log *logger.Logger
}

// NewSilent creates a silent narrator.
func NewSilent(log *logger.Logger) *Silent {
	return &Silent{log: log}
}

// Say logs the text instead of speaking it.
func (s *Silent) Say(text string) {
	s.log.Debug("speech off: would say %q", truncate(text, 60))
}

// Interrupt does nothing.
func (s *Silent) Interrupt() {}
