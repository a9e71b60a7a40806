package service

import (
	"sync"

	"github.com/Behyna/vvm-service/internal/omtp"
)

// SMSListener receives inbound visual voicemail messages for one account and
// reports whether it consumed the message.
type SMSListener func(msg omtp.Message) bool

// SMSReceiver registers listeners for an account. The returned func removes
// the listener and is safe to call more than once.
type SMSReceiver interface {
	Register(accountID string, listener SMSListener) (unregister func())
}

// SMSDispatcher routes inbound SMS to whoever waits for them. The filter of an
// account holds the client prefix its carrier uses; messages for accounts
// without an active filter are not visual voicemail traffic.
type SMSDispatcher interface {
	SMSReceiver
	ActivateFilter(accountID, clientPrefix string)
	DeactivateFilter(accountID string)
	Filter(accountID string) (clientPrefix string, ok bool)
	Dispatch(accountID string, msg omtp.Message) bool
	Listeners(accountID string) int
}

type listenerEntry struct {
	id       uint64
	listener SMSListener
}

type smsDispatcher struct {
	mu        sync.Mutex
	nextID    uint64
	filters   map[string]string
	listeners map[string][]listenerEntry
}

func NewSMSDispatcher() SMSDispatcher {
	return &smsDispatcher{
		filters:   make(map[string]string),
		listeners: make(map[string][]listenerEntry),
	}
}

func (d *smsDispatcher) ActivateFilter(accountID, clientPrefix string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.filters[accountID] = clientPrefix
}

func (d *smsDispatcher) DeactivateFilter(accountID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.filters, accountID)
}

func (d *smsDispatcher) Filter(accountID string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	prefix, ok := d.filters[accountID]
	return prefix, ok
}

func (d *smsDispatcher) Register(accountID string, listener SMSListener) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	id := d.nextID
	d.listeners[accountID] = append(d.listeners[accountID], listenerEntry{id: id, listener: listener})

	var once sync.Once
	return func() {
		once.Do(func() { d.remove(accountID, id) })
	}
}

func (d *smsDispatcher) remove(accountID string, id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	entries := d.listeners[accountID]
	for i, e := range entries {
		if e.id == id {
			entries = append(entries[:i:i], entries[i+1:]...)
			break
		}
	}
	if len(entries) == 0 {
		delete(d.listeners, accountID)
		return
	}
	d.listeners[accountID] = entries
}

// Dispatch offers msg to the listeners of accountID in registration order and
// stops at the first one that consumes it.
func (d *smsDispatcher) Dispatch(accountID string, msg omtp.Message) bool {
	d.mu.Lock()
	entries := append([]listenerEntry(nil), d.listeners[accountID]...)
	d.mu.Unlock()

	for _, e := range entries {
		if e.listener(msg) {
			return true
		}
	}
	return false
}

func (d *smsDispatcher) Listeners(accountID string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners[accountID])
}
