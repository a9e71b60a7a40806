package contract

type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

type AcceptedResponse struct {
	Status    string `json:"status"`
	AccountID string `json:"account_id,omitempty"`
}

const StatusQueued = "QUEUED"
