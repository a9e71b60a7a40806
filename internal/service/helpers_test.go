package service_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/Behyna/vvm-service/internal/carrier"
	"github.com/Behyna/vvm-service/internal/config"
	"github.com/Behyna/vvm-service/internal/mocks"
	"github.com/Behyna/vvm-service/internal/model"
	"github.com/Behyna/vvm-service/internal/omtp"
	"github.com/Behyna/vvm-service/internal/repository"
	"github.com/Behyna/vvm-service/internal/service"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

const (
	subOMTP        = "310260-1"
	subCVVM        = "302220-1"
	subVVM3        = "311480-1"
	subUnsupported = "999999-1"
)

func testCarriers() carrier.MemorySource {
	return carrier.MemorySource{
		subOMTP: {
			carrier.KeyVVMType:           omtp.VVMTypeOMTP,
			carrier.KeyDestinationNumber: "122",
			carrier.KeyPortNumber:        1808,
			carrier.KeyProtocolVersion:   "13",
		},
		subCVVM: {
			carrier.KeyVVMType:              omtp.VVMTypeCVVM,
			carrier.KeyDestinationNumber:    "94183567",
			carrier.KeyPortNumber:           5499,
			carrier.KeyCellularDataRequired: true,
			carrier.KeySSLEnabled:           true,
		},
		subVVM3: {
			carrier.KeyVVMType:           omtp.VVMTypeVVM3,
			carrier.KeyDestinationNumber: "900080006200",
			carrier.KeyClientPrefix:      "//VZWVVM",
		},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Activation: config.Activation{
			StatusSMSTimeout: 50 * time.Millisecond,
			MaxRetries:       4,
			RetryInterval:    5 * time.Second,
			ClientType:       "vvm.client",
		},
	}
}

type memoryStatusRepo struct {
	mu      sync.Mutex
	records map[string]model.StatusRecord
	saves   int
	err     error
}

func newMemoryStatusRepo() *memoryStatusRepo {
	return &memoryStatusRepo{records: make(map[string]model.StatusRecord)}
}

func (r *memoryStatusRepo) Get(_ context.Context, accountID string) (*model.StatusRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	record, ok := r.records[accountID]
	if !ok {
		return model.NewStatusRecord(accountID), nil
	}
	return &record, nil
}

func (r *memoryStatusRepo) Update(_ context.Context, record *model.StatusRecord, columns []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.saves++

	stored, ok := r.records[record.AccountID]
	if !ok {
		r.records[record.AccountID] = *record
		return nil
	}
	for _, column := range columns {
		switch column {
		case repository.ColumnSourceType:
			stored.SourceType = record.SourceType
		case repository.ColumnConfigurationState:
			stored.ConfigurationState = record.ConfigurationState
		case repository.ColumnDataChannelState:
			stored.DataChannelState = record.DataChannelState
		case repository.ColumnNotificationChannel:
			stored.NotificationChannelState = record.NotificationChannelState
		case repository.ColumnQuotaOccupied:
			stored.QuotaOccupied = record.QuotaOccupied
		case repository.ColumnQuotaTotal:
			stored.QuotaTotal = record.QuotaTotal
		}
	}
	r.records[record.AccountID] = stored
	return nil
}

func (r *memoryStatusRepo) put(record *model.StatusRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[record.AccountID] = *record
}

func (r *memoryStatusRepo) get(accountID string) model.StatusRecord {
	record, _ := r.Get(context.Background(), accountID)
	return *record
}

func (r *memoryStatusRepo) saveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

var errSourceMissing = errors.New("source missing")

type memorySourceRepo struct {
	mu      sync.Mutex
	sources map[string]model.VoicemailSource
}

func newMemorySourceRepo() *memorySourceRepo {
	return &memorySourceRepo{sources: make(map[string]model.VoicemailSource)}
}

func (r *memorySourceRepo) Get(_ context.Context, accountID string) (*model.VoicemailSource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	source, ok := r.sources[accountID]
	if !ok {
		return nil, errSourceMissing
	}
	return &source, nil
}

func (r *memorySourceRepo) IsActive(_ context.Context, accountID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sources[accountID].Active, nil
}

func (r *memorySourceRepo) ListActive(_ context.Context) ([]model.VoicemailSource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var active []model.VoicemailSource
	for _, source := range r.sources {
		if source.Active {
			active = append(active, source)
		}
	}
	return active, nil
}

func (r *memorySourceRepo) Activate(_ context.Context, source *model.VoicemailSource) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	stored := *source
	stored.Active = true
	stored.ActivatedAt = &now
	r.sources[source.AccountID] = stored
	return nil
}

func (r *memorySourceRepo) Deactivate(_ context.Context, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	source := r.sources[accountID]
	source.Active = false
	source.ActivatedAt = nil
	r.sources[accountID] = source
	return nil
}

func (r *memorySourceRepo) DisableIndicatorCheck(_ context.Context, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	source := r.sources[accountID]
	source.AccountID = accountID
	source.IndicatorCheckDisabled = true
	r.sources[accountID] = source
	return nil
}

func (r *memorySourceRepo) source(accountID string) model.VoicemailSource {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sources[accountID]
}

// fakeSMS records outbound messages. reply, when set, plays the carrier and
// answers synchronously.
type fakeSMS struct {
	mu          sync.Mutex
	sent        []omtp.OutboundSMS
	err         error
	reply       func(sms omtp.OutboundSMS)
	gate        chan struct{}
	started     chan struct{}
	inFlight    int
	maxInFlight int
}

func (f *fakeSMS) SendSMS(_ context.Context, sms omtp.OutboundSMS) error {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	f.sent = append(f.sent, sms)
	err, reply, gate, started := f.err, f.reply, f.gate, f.started
	f.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if err != nil {
		return err
	}
	if reply != nil {
		reply(sms)
	}
	return nil
}

func (f *fakeSMS) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	texts := make([]string, 0, len(f.sent))
	for _, sms := range f.sent {
		texts = append(texts, sms.Text)
	}
	return texts
}

func (f *fakeSMS) peak() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}

type scheduledRun struct {
	id uint64
	fn func()
}

// manualScheduler keeps scheduled runs until the test releases them.
type manualScheduler struct {
	mu      sync.Mutex
	nextID  uint64
	delays  []time.Duration
	pending []scheduledRun
	stopped bool
}

func (s *manualScheduler) Schedule(delay time.Duration, fn func()) (func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return func() {}, false
	}
	s.nextID++
	id := s.nextID
	s.delays = append(s.delays, delay)
	s.pending = append(s.pending, scheduledRun{id: id, fn: fn})
	return func() { s.cancel(id) }, true
}

func (s *manualScheduler) cancel(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = slices.DeleteFunc(s.pending, func(run scheduledRun) bool { return run.id == id })
}

func (s *manualScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	s.pending = nil
}

func (s *manualScheduler) RunNext() bool {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return false
	}
	run := s.pending[0]
	s.pending = s.pending[1:]
	s.mu.Unlock()

	run.fn()
	return true
}

func (s *manualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func (s *manualScheduler) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.delays...)
}

type harness struct {
	cfg        *config.Config
	statuses   *memoryStatusRepo
	sources    *memorySourceRepo
	sms        *fakeSMS
	scheduler  *manualScheduler
	sync       *mocks.SyncTrigger
	subscriber *mocks.Subscriber
	txManager  *mocks.TxManager
	device     service.DeviceState
	dispatcher service.SMSDispatcher
	events     service.EventHandler
	activation service.ActivationService
}

func newHarness(provisioned bool) *harness {
	logger := zap.NewNop()
	h := &harness{
		cfg:        testConfig(),
		statuses:   newMemoryStatusRepo(),
		sources:    newMemorySourceRepo(),
		sms:        &fakeSMS{},
		scheduler:  &manualScheduler{},
		sync:       &mocks.SyncTrigger{},
		subscriber: &mocks.Subscriber{},
		txManager:  &mocks.TxManager{},
		device:     service.NewDeviceState(provisioned),
		dispatcher: service.NewSMSDispatcher(),
	}
	h.sync.On("RequestSync", mock.Anything, mock.Anything).Return(nil).Maybe()
	h.sync.On("ClearMessageWaiting", mock.Anything, mock.Anything).Return(nil).Maybe()
	h.txManager.On("WithTx", mock.Anything, mock.Anything).Return(nil).Maybe()

	h.events = service.NewEventHandler(h.statuses, nil, nil, nil, logger)
	fetcher := service.NewStatusFetcher(h.dispatcher, nil, logger)

	h.activation = service.NewActivationService(service.ActivationDeps{
		Config:      h.cfg,
		Resolver:    carrier.NewResolver(testCarriers()),
		Events:      h.events,
		Sources:     h.sources,
		TxManager:   h.txManager,
		Device:      h.device,
		Dispatcher:  h.dispatcher,
		Fetcher:     fetcher,
		SMS:         h.sms,
		Retry:       service.NewRetryPolicy(h.cfg, h.scheduler),
		Provisioner: service.NewVvm3Provisioner(h.events, fetcher, h.subscriber, h.cfg, logger),
		Sync:        h.sync,
		Logger:      logger,
	})
	return h
}

// replyWith answers every outbound SMS of accountID with the given STATUS fields.
func (h *harness) replyWith(accountID string, replies ...map[string]string) {
	var mu sync.Mutex
	n := 0
	h.sms.reply = func(omtp.OutboundSMS) {
		mu.Lock()
		i := n
		if i >= len(replies) {
			i = len(replies) - 1
		}
		n++
		mu.Unlock()

		h.dispatcher.Dispatch(accountID, omtp.Message{Type: omtp.MessageTypeStatus, Fields: replies[i]})
	}
}

func readyStatus() map[string]string {
	return map[string]string{
		omtp.FieldProvisioningStatus: omtp.ProvisioningReady,
		omtp.FieldReturnCode:         omtp.ReturnCodeSuccess,
		omtp.FieldServerAddress:      "vvm.example.net",
		omtp.FieldIMAPPort:           "993",
		omtp.FieldIMAPUserName:       "user",
		omtp.FieldIMAPPassword:       "secret",
		omtp.FieldTUINumber:          "123",
	}
}
