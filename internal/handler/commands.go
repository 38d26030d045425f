package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/joestump/tallybot/internal/command"
	"github.com/joestump/tallybot/internal/store"
)

// maxBody bounds a command request; chat messages are short.
const maxBody = 64 << 10

type commandsHandler struct {
	dispatcher *command.Dispatcher
	logger     *zap.Logger
}

func newCommandsHandler(d *command.Dispatcher, logger *zap.Logger) *commandsHandler {
	return &commandsHandler{dispatcher: d, logger: logger}
}

// commandRequest is the JSON body for POST /commands. A missing location_id
// runs the command in the generic namespace; community ids are never zero.
type commandRequest struct {
	ActorID    uint64  `json:"actor_id"`
	LocationID *uint64 `json:"location_id"`
	Content    string  `json:"content"`
}

type commandResponse struct {
	Reply string `json:"reply"`
}

// Run executes one command message.
// POST /commands
func (h *commandsHandler) Run(w http.ResponseWriter, r *http.Request) {
	var body commandRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}
	if body.ActorID == 0 {
		writeError(w, http.StatusBadRequest, "actor_id is required", "bad_request")
		return
	}
	if strings.TrimSpace(body.Content) == "" {
		writeError(w, http.StatusBadRequest, "content is required", "bad_request")
		return
	}

	loc := store.Generic
	if body.LocationID != nil {
		if *body.LocationID == 0 {
			writeError(w, http.StatusBadRequest, "location_id must not be 0; omit it for generic", "bad_request")
			return
		}
		loc = store.InLocation(*body.LocationID)
	}

	reply, err := h.dispatcher.Dispatch(command.Request{
		ActorID:  body.ActorID,
		Location: loc,
		Content:  body.Content,
	})
	if err != nil {
		h.writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, commandResponse{Reply: reply})
}

func (h *commandsHandler) writeCommandError(w http.ResponseWriter, err error) {
	if errors.Is(err, command.ErrNotCommand) {
		writeError(w, http.StatusBadRequest, "message is not a command", "bad_request")
		return
	}
	var cerr *command.Error
	if !errors.As(err, &cerr) {
		h.logger.Error("unexpected dispatch error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Internal error, please report this.", string(command.CodeInternal))
		return
	}
	status := http.StatusUnprocessableEntity
	switch cerr.Code {
	case command.CodeRateLimited:
		status = http.StatusTooManyRequests
	case command.CodeInternal:
		status = http.StatusInternalServerError
	}
	writeError(w, status, cerr.Message, string(cerr.Code))
}
