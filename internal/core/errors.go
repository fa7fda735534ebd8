package core

// Error codes for domain errors. These travel over the ack channel verbatim.
const (
	ErrCodeDuplicateRoom = "duplicate_room"
	ErrCodeRoomNotFound  = "room_not_found"
	ErrCodeWrongPin      = "wrong_pin"
	ErrCodeUnauthorized  = "unauthorized"
	ErrCodeUserNotFound  = "user_not_found"
	ErrCodeBadRequest    = "bad_request"
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}

func errDuplicateRoom() *CoreError { return coreError(ErrCodeDuplicateRoom, "room already exists") }
func errRoomNotFound() *CoreError  { return coreError(ErrCodeRoomNotFound, "room not found") }
func errWrongPin() *CoreError      { return coreError(ErrCodeWrongPin, "wrong pin") }
func errUnauthorized() *CoreError  { return coreError(ErrCodeUnauthorized, "not the room owner") }
func errUserNotFound() *CoreError  { return coreError(ErrCodeUserNotFound, "user not found") }
