package domain

import "time"

// RoomStat is a point-in-time view of one active room.
type RoomStat struct {
	RoomID    string `json:"roomId"`
	UserCount int    `json:"userCount"`
}

// Stats summarizes the relay state for the health endpoint.
type Stats struct {
	ActiveRooms      int        `json:"activeRooms"`
	TotalConnections int        `json:"totalConnections"`
	Rooms            []RoomStat `json:"roomDetails"`
	Timestamp        time.Time  `json:"timestamp"`
}
