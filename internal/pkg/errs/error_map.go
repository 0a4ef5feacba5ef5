/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
both game-channel replies and JSON responses on the operational API.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int); the value carries the player message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:     {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrInvalidJSONFormat: {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrRateLimitExceeded: {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Room and Game Business Logic Errors
	ErrRoomNotFound:      {Code: ErrRoomNotFound, Message: "Room not found.", Status: http.StatusNotFound},
	ErrRoomIDInvalid:     {Code: ErrRoomIDInvalid, Message: "Invalid room ID.", Status: http.StatusBadRequest},
	ErrRoomIsFull:        {Code: ErrRoomIsFull, Message: "This room is full.", Status: http.StatusConflict},
	ErrRoomNameEmpty:     {Code: ErrRoomNameEmpty, Message: "Room name must not be empty.", Status: http.StatusBadRequest},
	ErrGuessNotANumber:   {Code: ErrGuessNotANumber, Message: "Type numbers only."},
	ErrGuessOutOfRange:   {Code: ErrGuessOutOfRange, Message: "Pick a number between %d and %d."},
	ErrMenuChoiceInvalid: {Code: ErrMenuChoiceInvalid, Message: "Unknown option. Choose 1, 2 or 3."},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
