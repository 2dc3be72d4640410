package schema

const (
	TaskKindVideo = "video"

	TaskStatusProcessing = "processing"
	TaskStatusReady      = "ready"
	TaskStatusFailed     = "failed"
	TaskStatusTimedOut   = "timedOut"
)

// VideoTask tracks one externally-rendered video. Transitions are driven only
// by the task manager's poll loop; ready, failed and timedOut are terminal.
type VideoTask struct {
	TaskId    string `json:"taskId"`
	Kind      string `json:"kind"`
	Status    string `json:"status"`
	ResultUrl string `json:"resultUrl,omitempty"`
	Attempts  int    `json:"attempts"`
	Timestamp int64  `json:"timestamp"` // begin timestamp
	ErrMsg    string `json:"errMsg,omitempty"`
}

func (t VideoTask) Terminal() bool {
	return t.Status != TaskStatusProcessing
}

// VideoStatus is a provider status response, normalized to the VideoTask
// status vocabulary by the provider client.
type VideoStatus struct {
	VideoId   string `json:"videoId"`
	Status    string `json:"status"`
	ResultUrl string `json:"resultUrl,omitempty"`
}
