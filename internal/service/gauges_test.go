package service_test

import (
	"testing"
	"time"

	"github.com/Behyna/vvm-service/internal/mocks"
	"github.com/Behyna/vvm-service/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestActivationGauges(t *testing.T) {
	scheduler := &manualScheduler{}
	scheduler.Schedule(time.Second, func() {})
	scheduler.Schedule(time.Second, func() {})

	activation := &mocks.ActivationService{}
	activation.On("Deferred").Return(3)

	gauges := service.NewActivationGauges(scheduler, activation)

	assert.Equal(t, 2, gauges.PendingRetries())
	assert.Equal(t, 3, gauges.DeferredActivations())
	activation.AssertExpectations(t)
}

func TestTimerScheduler_Pending(t *testing.T) {
	scheduler := service.NewScheduler()
	ran := make(chan struct{})

	_, ok := scheduler.Schedule(time.Hour, func() {})
	assert.True(t, ok)
	_, ok = scheduler.Schedule(time.Millisecond, func() { close(ran) })
	assert.True(t, ok)
	assert.Equal(t, 2, scheduler.Pending())

	<-ran
	assert.Eventually(t, func() bool { return scheduler.Pending() == 1 }, time.Second, 5*time.Millisecond)

	scheduler.Stop()
	assert.Equal(t, 0, scheduler.Pending())
	_, ok = scheduler.Schedule(time.Millisecond, func() {})
	assert.False(t, ok)
}
