package registry

import "errors"

var (
	// ErrIndexOutOfRange is returned when an index does not address an account.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrDeserializationFailed is returned when the persisted snapshot cannot be decoded.
	ErrDeserializationFailed = errors.New("deserialization failed")
	// ErrStorageUnavailable is returned when the storage backend fails to read or write.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
