package algopay

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/usheguard/algopay/schema"
)

const (
	DefaultPollInterval   = 10 * time.Second
	DefaultPollMaxAttempt = 30
)

// VideoProvider is the status-by-id side of the generation provider. The
// returned status uses the VideoTask status vocabulary.
type VideoProvider interface {
	GetVideo(videoId string) (schema.VideoStatus, error)
}

type videoTask struct {
	tk     schema.VideoTask
	subs   map[string]chan schema.VideoTask
	cancel context.CancelFunc
}

// VideoTaskManager runs one bounded poll loop per taskId. A second watch on
// the same taskId attaches to the existing loop instead of starting a
// duplicate polling stream.
type VideoTaskManager struct {
	cap        int
	interval   time.Duration
	maxAttempt int

	provider VideoProvider
	store    *Store // pending pool persistence; nil disables it
	pool     *ants.Pool

	tasks  map[string]*videoTask
	locker sync.RWMutex
}

func NewVideoTaskMg(provider VideoProvider, store *Store, cap int, interval time.Duration, maxAttempt int) *VideoTaskManager {
	pool, err := ants.NewPool(cap)
	if err != nil {
		panic(err)
	}
	return &VideoTaskManager{
		cap:        cap,
		interval:   interval,
		maxAttempt: maxAttempt,
		provider:   provider,
		store:      store,
		pool:       pool,
		tasks:      make(map[string]*videoTask),
		locker:     sync.RWMutex{},
	}
}

// InitVideoTaskMg resumes polling for tasks that were pending at shutdown.
func (m *VideoTaskManager) InitVideoTaskMg() error {
	if m.store == nil {
		return nil
	}
	taskIds, err := m.store.LoadAllPendingTaskIds()
	if err != nil {
		return err
	}
	for _, taskId := range taskIds {
		if err := m.Track(taskId); err != nil {
			log.Warn("resume video task", "err", err, "taskId", taskId)
		}
	}
	return nil
}

// Track starts the poll loop for taskId if it is not already running.
func (m *VideoTaskManager) Track(taskId string) error {
	m.locker.Lock()
	defer m.locker.Unlock()
	_, err := m.track(taskId)
	return err
}

// Watch is Track plus a subscription: the returned channel receives the
// terminal task state exactly once. A cancelled task closes the channel
// without sending; that is a cancellation, not a failure.
func (m *VideoTaskManager) Watch(taskId string) (<-chan schema.VideoTask, string, error) {
	m.locker.Lock()
	defer m.locker.Unlock()

	t, err := m.track(taskId)
	if err != nil {
		return nil, "", err
	}
	subId := uuid.NewString()
	ch := make(chan schema.VideoTask, 1)
	t.subs[subId] = ch
	return ch, subId, nil
}

// Unwatch drops one subscriber; the loop keeps running for the others.
func (m *VideoTaskManager) Unwatch(taskId, subId string) {
	m.locker.Lock()
	defer m.locker.Unlock()
	if t, ok := m.tasks[taskId]; ok {
		delete(t.subs, subId)
	}
}

// Kill cancels the loop for taskId; subscribers see a closed channel.
func (m *VideoTaskManager) Kill(taskId string) error {
	m.locker.RLock()
	t, ok := m.tasks[taskId]
	m.locker.RUnlock()
	if !ok {
		return schema.ErrNotFound
	}
	t.cancel()
	return nil
}

func (m *VideoTaskManager) GetTask(taskId string) *schema.VideoTask {
	m.locker.RLock()
	defer m.locker.RUnlock()
	if t, ok := m.tasks[taskId]; ok {
		tk := t.tk
		return &tk
	}
	return nil
}

func (m *VideoTaskManager) GetTasks() map[string]schema.VideoTask {
	m.locker.RLock()
	defer m.locker.RUnlock()
	tasks := make(map[string]schema.VideoTask, len(m.tasks))
	for id, t := range m.tasks {
		tasks[id] = t.tk
	}
	return tasks
}

// track must be called with the write lock held.
func (m *VideoTaskManager) track(taskId string) (*videoTask, error) {
	if taskId == "" {
		return nil, schema.ErrNullTaskId
	}
	if t, ok := m.tasks[taskId]; ok {
		return t, nil
	}
	if len(m.tasks) >= m.cap {
		return nil, schema.ErrFullyLoaded
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &videoTask{
		tk: schema.VideoTask{
			TaskId:    taskId,
			Kind:      schema.TaskKindVideo,
			Status:    schema.TaskStatusProcessing,
			Timestamp: time.Now().Unix(),
		},
		subs:   make(map[string]chan schema.VideoTask),
		cancel: cancel,
	}
	m.tasks[taskId] = t

	if m.store != nil {
		if err := m.store.PutPendingTaskId(taskId); err != nil {
			log.Warn("put pending task pool", "err", err, "taskId", taskId)
		}
	}
	if err := m.pool.Submit(func() { m.pollLoop(ctx, taskId) }); err != nil {
		delete(m.tasks, taskId)
		cancel()
		return nil, err
	}
	return t, nil
}

func (m *VideoTaskManager) pollLoop(ctx context.Context, taskId string) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for attempts := 0; ; {
		select {
		case <-ctx.Done():
			m.finish(taskId, schema.VideoTask{}, true)
			return
		case <-ticker.C:
		}

		vs, err := m.provider.GetVideo(taskId)
		attempts++
		if err != nil {
			// transient provider errors still consume attempts
			log.Warn("query video status", "err", err, "taskId", taskId)
		} else {
			switch vs.Status {
			case schema.TaskStatusReady:
				m.finish(taskId, schema.VideoTask{Status: schema.TaskStatusReady, ResultUrl: vs.ResultUrl}, false)
				return
			case schema.TaskStatusFailed:
				m.finish(taskId, schema.VideoTask{Status: schema.TaskStatusFailed, ErrMsg: "video generation failed"}, false)
				return
			}
		}
		m.setAttempts(taskId, attempts)

		if attempts >= m.maxAttempt {
			m.finish(taskId, schema.VideoTask{Status: schema.TaskStatusTimedOut}, false)
			return
		}
	}
}

func (m *VideoTaskManager) setAttempts(taskId string, attempts int) {
	m.locker.Lock()
	defer m.locker.Unlock()
	if t, ok := m.tasks[taskId]; ok {
		t.tk.Attempts = attempts
	}
}

// finish moves the task to a terminal state, notifies subscribers, persists
// the snapshot and clears the pending pool entry.
func (m *VideoTaskManager) finish(taskId string, terminal schema.VideoTask, cancelled bool) {
	m.locker.Lock()
	t, ok := m.tasks[taskId]
	if !ok {
		m.locker.Unlock()
		return
	}
	delete(m.tasks, taskId)
	if !cancelled {
		t.tk.Status = terminal.Status
		t.tk.ResultUrl = terminal.ResultUrl
		t.tk.ErrMsg = terminal.ErrMsg
	}
	tk := t.tk
	subs := t.subs
	m.locker.Unlock()

	t.cancel()
	for _, ch := range subs {
		if cancelled {
			close(ch)
			continue
		}
		ch <- tk
		close(ch)
	}

	if m.store == nil {
		return
	}
	if !cancelled {
		if err := m.store.SaveTask(taskId, tk); err != nil {
			log.Error("save terminal video task", "err", err, "taskId", taskId)
		}
	}
	if err := m.store.DelPendingTaskId(taskId); err != nil {
		log.Error("del pending task pool", "err", err, "taskId", taskId)
	}
}
