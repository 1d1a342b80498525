package memory

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/interactive-solutions/go-template-engine"
)

func NewJobRepository() templateengine.JobRepository {
	return &jobRepository{
		jobs: map[uuid.UUID]templateengine.Job{},
	}
}

type jobRepository struct {
	mu   sync.RWMutex
	jobs map[uuid.UUID]templateengine.Job
}

func (repo *jobRepository) Create(job *templateengine.Job) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.jobs[job.Uuid] = *job
	return nil
}

func (repo *jobRepository) Update(job *templateengine.Job) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.jobs[job.Uuid]; !ok {
		return templateengine.JobNotFoundErr
	}

	repo.jobs[job.Uuid] = *job
	return nil
}

// GetPending returns unsent jobs, oldest first.
func (repo *jobRepository) GetPending() ([]templateengine.Job, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	var jobs []templateengine.Job
	for _, job := range repo.jobs {
		if job.SentAt == nil {
			jobs = append(jobs, job)
		}
	}

	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.Before(jobs[j].CreatedAt)
	})

	return jobs, nil
}
