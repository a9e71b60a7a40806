package omtp

// Carrier voicemail types as they appear in carrier config.
const (
	VVMTypeOMTP = "vvm_type_omtp"
	VVMTypeCVVM = "vvm_type_cvvm"
	VVMTypeVVM3 = "vvm_type_vvm3"
)

const (
	ProtocolVersion11 = "11"
	ProtocolVersion12 = "12"
	ProtocolVersion13 = "13"
)

const DefaultClientPrefix = "//VVM"

const (
	fieldSeparator = ";"
	keyValueSep    = "="
	partSeparator  = ":"
)

// Mobile originated requests.
const (
	activateRequest   = "Activate"
	deactivateRequest = "Deactivate"
	statusRequest     = "Status"

	fieldProtocolVersion = "pv"
	fieldClientType      = "ct"
	fieldApplicationPort = "pt"

	cvvmDeviceType = "dt=15"

	vvm3StatusRequest     = "STATUS"
	vvm3DeactivateRequest = "DEACTIVATE"
)

// Mobile terminated message types.
const (
	MessageTypeStatus = "STATUS"
	MessageTypeSync   = "SYNC"
)

// STATUS SMS fields.
const (
	FieldProvisioningStatus = "st"
	FieldReturnCode         = "rc"
	FieldSubscriptionURL    = "rs"
	FieldServerAddress      = "srv"
	FieldTUINumber          = "tui"
	FieldClientSMSDest      = "dn"
	FieldIMAPPort           = "ipt"
	FieldIMAPUserName       = "u"
	FieldIMAPPassword       = "pw"
	FieldSMTPPort           = "spt"
	FieldSMTPUserName       = "smtp_u"
	FieldSMTPPassword       = "smtp_pw"
)

// SYNC SMS fields.
const (
	FieldSyncEvent     = "ev"
	FieldMessageID     = "id"
	FieldMessageCount  = "c"
	FieldContentType   = "t"
	FieldSender        = "s"
	FieldTimestamp     = "dt"
	FieldMessageLength = "l"
)

const (
	ProvisioningNew         = "N"
	ProvisioningReady       = "R"
	ProvisioningProvisioned = "P"
	ProvisioningUnknown     = "U"
	ProvisioningBlocked     = "B"
)

const (
	ReturnCodeSuccess                = "0"
	ReturnCodeSystemError            = "1"
	ReturnCodeSubscriberError        = "2"
	ReturnCodeMailboxUnknown         = "3"
	ReturnCodeVVMNotActivated        = "4"
	ReturnCodeVVMNotProvisioned      = "5"
	ReturnCodeVVMClientUnknown       = "6"
	ReturnCodeVVMMailboxNotInitiated = "7"
)

const (
	SyncEventNewMessage     = "NM"
	SyncEventMailboxUpdate  = "MBU"
	SyncEventGreetingUpdate = "GU"
)
