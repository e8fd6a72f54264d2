package core

import "errors"

var (
	ErrApprovalPending      = errors.New("another connection approval is pending")
	ErrIntentPending        = errors.New("another intent is pending")
	ErrUserRejected         = errors.New("request rejected by user")
	ErrHostInactive         = errors.New("connect host is not active")
	ErrStoreOperationFailed = errors.New("store operation failed")
	ErrInvalidSession       = errors.New("invalid session")
	ErrUnknownEnvelope      = errors.New("unknown envelope kind")
	ErrUnknownMethod        = errors.New("unknown envelope method")
)
