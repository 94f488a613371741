package repository

import (
	"github.com/mesbrj/teams-api/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Records *RecordRepository
}

// NewRepositories builds every repository on the shared pool of s.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Records: NewRecordRepository(s.DB.Pool),
	}
}
