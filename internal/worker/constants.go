package worker

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// Log messages for pool operations
const (
	LogMsgWorkerJobFailed   = "Worker job failed"
	LogMsgWorkerJobDropped  = "Worker queue full, dropping job"
	LogMsgWorkerPoolStopped = "Worker pool stopped"
)

// ============================================================================
// Log Messages - Scheduler
// ============================================================================

// Log messages for scheduled callbacks
const (
	LogMsgTaskScheduled     = "Scheduling delayed task"
	LogMsgTaskCancelled     = "Cancelled pending task"
	LogMsgSchedulerShutdown = "Shutting down scheduler"
	LogMsgSchedulerStopped  = "Scheduler shutdown complete"
	LogMsgSchedulerTimeout  = "Scheduler shutdown timeout, some tasks may still be running"
)

// ============================================================================
// Test Configuration
// ============================================================================

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount      = 2
	TestQueueSize        = 10
	TestExpectedJobCount = 2
)
