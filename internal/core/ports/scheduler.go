package ports

import "time"

type SchedulerService interface {
	Start()
	Stop()
	ScheduleTaskOnce(at time.Time, task func()) error
	ScheduleEvery(interval time.Duration, task func()) error
}
