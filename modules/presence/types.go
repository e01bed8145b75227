package presence

import domain "github.com/example/realtime-chat/domain/chat"

// Service names provided by this module.
const (
	ServiceListUsers = "list-users"
	ServiceListRooms = "list-rooms"
)

// ListUsersRequest is the request for the list-users service.
type ListUsersRequest struct{}

// ListUsersResponse is the response for the list-users service.
type ListUsersResponse struct {
	Users []domain.User `json:"users"`
}

// ListRoomsRequest is the request for the list-rooms service.
type ListRoomsRequest struct{}

// ListRoomsResponse is the response for the list-rooms service.
type ListRoomsResponse struct {
	Rooms []string `json:"rooms"`
}
