package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToAdmin(programID string, msgType string, payload interface{})
	BroadcastToConsumer(sessionID string, msgType string, payload interface{})
}
