package gopg

import (
	"github.com/go-pg/pg"

	"github.com/interactive-solutions/go-template-engine"
)

func NewJobRepository(db *pg.DB) templateengine.JobRepository {
	return &jobRepository{
		db: db,
	}
}

type jobWrapper struct {
	TableName struct{} `sql:"template_engine_jobs,alias:tej" json:"-"`

	*templateengine.Job
}

type jobRepository struct {
	db *pg.DB
}

func (repo *jobRepository) Create(job *templateengine.Job) error {
	return repo.db.Insert(&jobWrapper{Job: job})
}

func (repo *jobRepository) Update(job *templateengine.Job) error {
	return repo.db.Update(&jobWrapper{Job: job})
}

func (repo *jobRepository) GetPending() ([]templateengine.Job, error) {
	var jobs []templateengine.Job
	var wrappedJobs []jobWrapper

	if err := repo.db.Model(&wrappedJobs).Where("sent_at is null").Order("created_at ASC").Select(); err != nil {
		if err == pg.ErrNoRows {
			return jobs, nil
		}

		return jobs, err
	}

	for _, j := range wrappedJobs {
		jobs = append(jobs, *j.Job)
	}

	return jobs, nil
}
