package host

import "encoding/json"

// Request is one framed message from the extension. Data's shape depends on
// Action and stays raw until the dispatcher knows which action it serves.
type Request struct {
	ID     uint32          `json:"id"`
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// Actions understood by the host.
const (
	ActionStart         = "Start"
	ActionStop          = "Stop"
	ActionGetData       = "GetData"
	ActionGetActive     = "GetActive"
	ActionPing          = "Ping"
	ActionTabFocused    = "TabFocused"
	ActionTabUnfocused  = "TabUnfocused"
	ActionTabClosed     = "TabClosed"
	ActionGetSessions   = "GetSessions"
	ActionDeleteSession = "DeleteSession"
)

// tabEvent is the payload of the three Tab* actions.
type tabEvent struct {
	URL   string `json:"url"`
	TabID int    `json:"tab_id"`
}

// sessionName is the payload of Start and DeleteSession.
type sessionName struct {
	SessionName string `json:"session_name"`
}

// Response mirrors a request's id back to the extension. Data and Error are
// serialized as null when unset, matching the wire format the extension
// expects.
type Response struct {
	ID      uint32  `json:"id"`
	Success bool    `json:"success"`
	Data    any     `json:"data"`
	Error   *string `json:"error"`
}

func success(id uint32, data any) Response {
	return Response{ID: id, Success: true, Data: data}
}

func failure(id uint32, err error) Response {
	msg := err.Error()
	return Response{ID: id, Error: &msg}
}
