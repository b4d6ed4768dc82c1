package transcription

import (
	"context"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"
)

// JobState is the lifecycle state of one transcription job
type JobState string

const (
	JobStateInProgress JobState = "IN_PROGRESS"
	JobStateCompleted  JobState = "COMPLETED"
	JobStateFailed     JobState = "FAILED"
)

// Job is a provider-agnostic view of one transcription job
type Job struct {
	ID            string
	State         JobState
	Text          string
	FailureReason string
}

// SpeechClient abstracts the speech-to-text provider so the poll loop can be
// tested without network calls.
type SpeechClient interface {
	// SubmitFromURL starts a transcription job for the audio at url and
	// returns the provider job id.
	SubmitFromURL(ctx context.Context, url string) (string, error)

	// GetJob fetches the current state of a job.
	GetJob(ctx context.Context, jobID string) (*Job, error)
}

// assemblySpeechClient implements SpeechClient with the AssemblyAI SDK
type assemblySpeechClient struct {
	client *aai.Client
}

// NewAssemblySpeechClient creates a SpeechClient backed by AssemblyAI
func NewAssemblySpeechClient(apiKey string) SpeechClient {
	return &assemblySpeechClient{client: aai.NewClient(apiKey)}
}

func (c *assemblySpeechClient) SubmitFromURL(ctx context.Context, url string) (string, error) {
	transcript, err := c.client.Transcripts.SubmitFromURL(ctx, url, nil)
	if err != nil {
		return "", err
	}

	var id string
	if transcript.ID != nil {
		id = *transcript.ID
	}
	return id, nil
}

func (c *assemblySpeechClient) GetJob(ctx context.Context, jobID string) (*Job, error) {
	transcript, err := c.client.Transcripts.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	job := &Job{ID: jobID}
	switch transcript.Status {
	case aai.TranscriptStatusCompleted:
		job.State = JobStateCompleted
		if transcript.Text != nil {
			job.Text = *transcript.Text
		}
	case aai.TranscriptStatusError:
		job.State = JobStateFailed
		if transcript.Error != nil {
			job.FailureReason = *transcript.Error
		}
	default:
		job.State = JobStateInProgress
	}
	return job, nil
}
