package realtime

// Events emitted by the browser and forwarded upstream.
const (
	EventJoinChat    = "join_chat"
	EventLeaveChat   = "leave_chat"
	EventSendMessage = "send_message"
	EventTyping      = "typing"
	EventStopTyping  = "stop_typing"
	EventMarkRead    = "mark_read"
)

// Events pushed by the upstream chat server.
const (
	EventNewMessage     = "new_message"
	EventUserTyping     = "user_typing"
	EventUserStopTyping = "user_stop_typing"
	EventMessagesRead   = "messages_read"
	EventUserOnline     = "user_online"
	EventUserOffline    = "user_offline"
	EventContactStatus  = "contact_status"
	EventOnlineUsers    = "online_users"
)

// EventConnectionStatus is produced by the gateway itself.
const EventConnectionStatus = "connection_status"

var clientEvents = map[string]bool{
	EventJoinChat:    true,
	EventLeaveChat:   true,
	EventSendMessage: true,
	EventTyping:      true,
	EventStopTyping:  true,
	EventMarkRead:    true,
}

// IsClientEvent reports whether a browser may emit the event.
func IsClientEvent(event string) bool {
	return clientEvents[event]
}
