package tasks

// TaskSchedulerInterface is what the rest of the application needs from the
// scheduler: lifecycle control and a way to queue work out of band, as the
// reload endpoint does.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
