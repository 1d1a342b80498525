package templateengine

import (
	"time"

	"github.com/google/uuid"
)

type JobType uint

const (
	JobSms JobType = iota
	JobEmail
)

// Job is a processing request waiting to be delivered to Target.
type Job struct {
	Uuid uuid.UUID `sql:",pk,type:uuid" json:"uuid"`
	Type JobType   `sql:",notnull" json:"type"`

	TemplateId   string                 `json:"templateId"`
	Lang         string                 `json:"lang"`
	OutputFormat string                 `json:"outputFormat"`
	Context      map[string]interface{} `json:"context"`

	Target string `json:"target"`

	SentAt    *time.Time `json:"sentAt"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (j *Job) request() ProcessingRequest {
	return ProcessingRequest{
		TemplateId:   j.TemplateId,
		Lang:         j.Lang,
		OutputFormat: j.OutputFormat,
		Context:      j.Context,
	}
}
