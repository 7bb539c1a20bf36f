package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go"
	"github.com/pkg/errors"

	"github.com/armadaproject/searchbench/internal/common/logging"
	"github.com/armadaproject/searchbench/internal/searchbench/configuration"
)

const (
	defaultTaskPollInterval = time.Second
	defaultMaxTaskPolls     = 600

	meilisearchTaskSucceeded = "succeeded"
	meilisearchTaskFailed    = "failed"
)

// Meilisearch benchmarks a Meilisearch server.
type Meilisearch struct {
	client       *client
	index        string
	pollInterval time.Duration
	maxPolls     uint
	settle       time.Duration
}

func newMeilisearch(c *client, config configuration.BackendConfig) *Meilisearch {
	m := &Meilisearch{
		client:       c,
		index:        config.Index,
		pollInterval: config.TaskPollInterval,
		maxPolls:     config.MaxTaskPolls,
		settle:       config.SettleDuration,
	}
	if m.pollInterval == 0 {
		m.pollInterval = defaultTaskPollInterval
	}
	if m.maxPolls == 0 {
		m.maxPolls = defaultMaxTaskPolls
	}
	return m
}

func (m *Meilisearch) Name() string {
	return "meilisearch"
}

type meilisearchEnqueued struct {
	// Older releases call it uid, newer ones taskUid
	Uid     *int64 `json:"uid"`
	TaskUid *int64 `json:"taskUid"`
}

func (e meilisearchEnqueued) id() (int64, error) {
	switch {
	case e.TaskUid != nil:
		return *e.TaskUid, nil
	case e.Uid != nil:
		return *e.Uid, nil
	default:
		return 0, errors.New("meilisearch did not return a task id for the submitted documents")
	}
}

type meilisearchTask struct {
	Status   string     `json:"status"`
	Started  *time.Time `json:"startedAt"`
	Finished *time.Time `json:"finishedAt"`
	Error    *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (m *Meilisearch) Prep(ctx context.Context, documents json.RawMessage) error {
	documentsUrl := m.client.url("/indexes/%s/documents", url.PathEscape(m.index))

	if err := m.client.clear(ctx, http.MethodDelete, documentsUrl, nil); err != nil {
		return err
	}

	var enqueued meilisearchEnqueued
	if err := m.client.decode(ctx, http.MethodPost, documentsUrl, documents, nil, &enqueued); err != nil {
		return err
	}
	taskId, err := enqueued.id()
	if err != nil {
		return err
	}

	task, err := m.awaitTask(ctx, taskId)
	if err != nil {
		return err
	}
	if task.Started != nil && task.Finished != nil {
		logging.Infof("MeiliSearch took %s to process submitted documents", task.Finished.Sub(*task.Started))
	}

	if m.settle > 0 {
		logging.Infof("waiting %s for meilisearch to settle", m.settle)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.settle):
		}
	}
	return nil
}

// awaitTask polls the task until meilisearch reports it as either succeeded or failed.
func (m *Meilisearch) awaitTask(ctx context.Context, taskId int64) (meilisearchTask, error) {
	var task meilisearchTask
	err := retry.Do(
		func() error {
			task = meilisearchTask{}
			if err := m.client.decode(ctx, http.MethodGet, m.client.url("/tasks/%d", taskId), nil, nil, &task); err != nil {
				return err
			}
			switch task.Status {
			case meilisearchTaskSucceeded:
				return nil
			case meilisearchTaskFailed:
				message := "unknown error"
				if task.Error != nil {
					message = task.Error.Message
				}
				return retry.Unrecoverable(errors.Errorf("meilisearch failed to index documents: %s", message))
			default:
				return errors.Errorf("meilisearch task %d is still %s", taskId, task.Status)
			}
		},
		retry.Context(ctx),
		retry.Attempts(m.maxPolls),
		retry.Delay(m.pollInterval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	return task, err
}

type meilisearchQuery struct {
	Q string `json:"q"`
}

func (m *Meilisearch) Search(ctx context.Context, query string) (int, error) {
	return m.client.status(ctx, http.MethodPost, m.client.url("/indexes/%s/search", url.PathEscape(m.index)), meilisearchQuery{Q: query}, nil)
}
