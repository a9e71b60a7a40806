package service

import "sync"

// DeviceState tracks the platform conditions activation depends on. A
// subscription counts as in service until told otherwise.
type DeviceState interface {
	IsProvisioned() bool
	SetProvisioned(provisioned bool)
	HasSignal(subscriptionID string) bool
	// SetInService returns false when the state did not change.
	SetInService(subscriptionID string, inService bool) bool
}

type deviceState struct {
	mu           sync.RWMutex
	provisioned  bool
	outOfService map[string]bool
}

func NewDeviceState(provisioned bool) DeviceState {
	return &deviceState{provisioned: provisioned, outOfService: make(map[string]bool)}
}

func (d *deviceState) IsProvisioned() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.provisioned
}

func (d *deviceState) SetProvisioned(provisioned bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.provisioned = provisioned
}

func (d *deviceState) HasSignal(subscriptionID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return !d.outOfService[subscriptionID]
}

func (d *deviceState) SetInService(subscriptionID string, inService bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	wasInService := !d.outOfService[subscriptionID]
	if inService {
		delete(d.outOfService, subscriptionID)
	} else {
		d.outOfService[subscriptionID] = true
	}
	return wasInService != inService
}
