package validator_test

import (
	"testing"

	"github.com/Behyna/vvm-service/internal/api/validator"
	playground "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	SubscriptionID string `validate:"required,subscription"`
	Event          string `validate:"omitempty,sync_event"`
}

func TestXValidator_Validate(t *testing.T) {
	x := validator.NewXValidator(playground.New(), nil)

	t.Run("valid", func(t *testing.T) {
		assert.Empty(t, x.Validate(&sample{SubscriptionID: "310260-1", Event: "DATA_IMAP_OPERATION_COMPLETED"}))
	})

	t.Run("bad subscription", func(t *testing.T) {
		errs := x.Validate(&sample{SubscriptionID: "../etc"})
		if assert.Len(t, errs, 1) {
			assert.Equal(t, "SubscriptionID", errs[0].FailedField)
			assert.Equal(t, validator.SubscriptionTag, errs[0].Tag)
		}
	})

	t.Run("non data event", func(t *testing.T) {
		errs := x.Validate(&sample{SubscriptionID: "310260-1", Event: "CONFIG_PIN_SET"})
		if assert.Len(t, errs, 1) {
			assert.Equal(t, validator.SyncEventTag, errs[0].Tag)
		}
	})

	t.Run("missing required", func(t *testing.T) {
		errs := x.Validate(&sample{})
		if assert.Len(t, errs, 1) {
			assert.Equal(t, "required", errs[0].Tag)
		}
	})
}
