package templateengine

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func (a *application) SendEmail(request ProcessingRequest, email string) (*Job, error) {
	if a.defaultEmailTransport == nil {
		return nil, errors.New("No email transport configured")
	}

	return a.createJob(JobEmail, request, email)
}

func (a *application) SendSms(request ProcessingRequest, number string) (*Job, error) {
	if a.defaultSmsTransport == nil {
		return nil, errors.New("No sms transport configured")
	}

	return a.createJob(JobSms, request, number)
}

func (a *application) createJob(jobType JobType, request ProcessingRequest, target string) (*Job, error) {
	if a.jobRepo == nil {
		return nil, errors.New("No job repository configured")
	}

	// Fail fast on requests that can never be processed
	tpl, err := a.GetTemplate(request.TemplateId)
	if err != nil {
		return nil, err
	}

	if _, err := validateProcessingRequest(request, tpl); err != nil {
		return nil, err
	}

	job := &Job{
		Uuid:         uuid.New(),
		Type:         jobType,
		TemplateId:   request.TemplateId,
		Lang:         request.Lang,
		OutputFormat: request.OutputFormat,
		Context:      request.Context,
		Target:       target,
		CreatedAt:    a.now(),
	}

	if err := a.jobRepo.Create(job); err != nil {
		return nil, err
	}

	a.queue(job)

	return job, nil
}

func (a *application) Shutdown(ctx context.Context) {
	<-ctx.Done()

	if a.workerCancel != nil {
		a.workerCancel()
	}
}

func (a *application) queue(job *Job) {
	go func() {
		a.workerQueue <- job
	}()
}

func (a *application) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case job, ok := <-a.workerQueue:
			if !ok {
				return
			}

			if err := a.process(ctx, job); err != nil {
				a.logger.
					WithField("job", job.Uuid).
					WithField("templateId", job.TemplateId).
					WithError(err).
					Error("failed to process job")

				continue
			}

			now := a.now()

			job.SentAt = &now

			if err := a.jobRepo.Update(job); err != nil {
				a.logger.
					WithField("job", job.Uuid).
					WithError(err).
					Error("failed to update job in job repo")
			}
		}
	}
}

func (a *application) process(ctx context.Context, job *Job) error {
	result, err := a.ProcessTemplate(ctx, job.request())
	if err != nil {
		return err
	}

	switch job.Type {
	case JobSms:
		return a.defaultSmsTransport.Send(ctx, job.Target, result.Result.Body)

	case JobEmail:
		return a.defaultEmailTransport.Send(ctx, job.Target, result)

	default:
		return errors.Errorf("Unknown job type %d", job.Type)
	}
}
