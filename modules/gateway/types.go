package gateway

import "encoding/json"

// envelope is the WebSocket wire frame: an event name plus its payload.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// sendMessagePayload is the payload of the send_message event.
type sendMessagePayload struct {
	Message string `json:"message"`
}

// privateMessagePayload is the payload of the private_message event.
type privateMessagePayload struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

// addReactionPayload is the payload of the add_reaction event.
type addReactionPayload struct {
	MessageID int64  `json:"messageId"`
	Reaction  string `json:"reaction"`
}

// ErrorResponse is the REST error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// UploadResponse is the body returned by a successful upload.
type UploadResponse struct {
	Message string `json:"message"`
	FileURL string `json:"fileUrl"`
}
