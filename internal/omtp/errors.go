package omtp

import "errors"

var (
	ErrUnknownEvent       = errors.New("UNKNOWN_EVENT")
	ErrNotVisualVoicemail = errors.New("NOT_VISUAL_VOICEMAIL_SMS")
	ErrMalformedMessage   = errors.New("MALFORMED_VVM_SMS")
	ErrUnknownProtocol    = errors.New("UNKNOWN_VVM_PROTOCOL")
)
