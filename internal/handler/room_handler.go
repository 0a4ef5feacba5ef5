/*
Package handler provides the HTTP handlers and routing for the operational API surface.

This file contains the room handlers: a registry listing for dashboards and an
out-of-band room creation endpoint for operators.
*/
package handler

import (
	"net/http"
	"strings"

	"mysterynum/internal/pkg/errs"
	"mysterynum/internal/pkg/req"
	"mysterynum/internal/pkg/resp"
)

// createRoomRequest is the JSON body accepted by HandleCreateRoom.
type createRoomRequest struct {
	Name    string `json:"name"`
	Creator string `json:"creator"`
}

// HandleListRooms returns the registry snapshot: id, name, creator, round,
// occupancy, and capacity per room, ordered by identifier.
func HandleListRooms(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, deps.Registry.List())
	}
}

// HandleCreateRoom creates a room out-of-band. The room is immediately
// joinable from the game channel.
func HandleCreateRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createRoomRequest
		if bindErr := req.BindJSON(r, &body); bindErr != nil {
			resp.RespondError(w, r, bindErr)
			return
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrRoomNameEmpty))
			return
		}

		creator := strings.TrimSpace(body.Creator)
		if creator == "" {
			creator = "operator"
		}

		room := deps.Registry.Create(body.Name, creator)
		resp.RespondSuccess(w, r, room.Info())
	}
}
