package schema

const (
	TaskIdPendingPoolBucket = "task_id_pending_pool_bucket"
	TaskBucket              = "task_bucket"
)
