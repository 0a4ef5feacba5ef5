/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
within the server and in replies sent to players.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrInvalidJSONFormat indicates that a request body was not valid JSON.
	ErrInvalidJSONFormat = 1002

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1003
)

// 2xxx: Room and Game Business Logic Errors
const (
	// ErrRoomNotFound indicates that no room exists for the requested identifier.
	ErrRoomNotFound = 2101

	// ErrRoomIDInvalid indicates that the client supplied a non-numeric room identifier.
	ErrRoomIDInvalid = 2102

	// ErrRoomIsFull indicates that the joined room has reached its player capacity.
	ErrRoomIsFull = 2103

	// ErrRoomNameEmpty indicates that room creation was requested without a name.
	ErrRoomNameEmpty = 2104

	// ErrGuessNotANumber indicates that a guess could not be parsed as an integer.
	ErrGuessNotANumber = 2201

	// ErrGuessOutOfRange indicates that a guess fell outside the 1..100 range.
	ErrGuessOutOfRange = 2202

	// ErrMenuChoiceInvalid indicates an unrecognized lobby menu option.
	ErrMenuChoiceInvalid = 2301
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
