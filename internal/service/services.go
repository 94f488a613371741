package service

import (
	"github.com/mesbrj/teams-api/internal/lib/job"
	"github.com/mesbrj/teams-api/internal/repository"
	"github.com/mesbrj/teams-api/internal/server"
)

type Services struct {
	Records DataManager
	Job     *job.JobService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	manager := NewDataManager(repos.Records, DefaultHooks())

	return &Services{
		Records: NewPublicCrud(manager),
		Job:     s.Job,
	}, nil
}
