package errcode

const (
	ErrUnknown = 10000000 + iota
	ErrNotFound
	ErrInvalid
	ErrInternal
	ErrInvalidFile
	ErrUploadFailed
	ErrStoreUnavailable
	ErrAssistantUnavailable
)
