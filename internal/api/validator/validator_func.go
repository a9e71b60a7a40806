package validator

import (
	"regexp"
	"strings"

	"github.com/Behyna/vvm-service/internal/omtp"
	"github.com/go-playground/validator/v10"
)

const (
	subscriptionRegex = `^[0-9A-Za-z][0-9A-Za-z._-]{0,63}$`
)

const (
	SubscriptionTag = "subscription"
	SyncEventTag    = "sync_event"
)

var subscriptionPattern = regexp.MustCompile(subscriptionRegex)

var valid = map[string]func(fl validator.FieldLevel) bool{
	SubscriptionTag: ValidateSubscription,
	SyncEventTag:    ValidateSyncEvent,
}

func ValidateSubscription(fl validator.FieldLevel) bool {
	return subscriptionPattern.MatchString(fl.Field().String())
}

// ValidateSyncEvent accepts the DATA_* events the sync engine reports.
func ValidateSyncEvent(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	if !strings.HasPrefix(name, "DATA_") {
		return false
	}
	event, err := omtp.ParseEvent(name)
	return err == nil && event.Type() == omtp.TypeDataChannel
}
