package flag

import "github.com/thirukguru/release-cutter/model"

type service struct {
	getenv func(string) string
}

// Service is the interface for CLI flag service.
type Service interface {
	GetParsedFlags() (model.Flags, error)
}
