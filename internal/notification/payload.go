package notification

import "fmt"

// PayloadData is the structured data a client receives with a push.
type PayloadData struct {
	RoomID        int64 `json:"roomId"`
	MinutesBefore int   `json:"minutesBefore"`
}

// Payload is the JSON body delivered to every push endpoint.
type Payload struct {
	Type     string      `json:"type"`
	Title    string      `json:"title"`
	Body     string      `json:"body"`
	Data     PayloadData `json:"data"`
	DedupTag string      `json:"dedupTag"`
}

// RoomOpeningPayload builds the payload for a room-opening reminder. The
// dedup tag is stable per (room, offset) so clients that support
// notification replacement collapse duplicates.
func RoomOpeningPayload(roomID int64, roomName, roomEmoji string, minutesBefore int) Payload {
	title := roomName
	if roomEmoji != "" {
		title = roomEmoji + " " + roomName
	}

	var body string
	if minutesBefore == 0 {
		body = fmt.Sprintf("%s is opening now", roomName)
	} else {
		body = fmt.Sprintf("%s opens in %d minutes", roomName, minutesBefore)
	}

	return Payload{
		Type:     "room_opening",
		Title:    title,
		Body:     body,
		Data:     PayloadData{RoomID: roomID, MinutesBefore: minutesBefore},
		DedupTag: fmt.Sprintf("room-opening-%d-%d", roomID, minutesBefore),
	}
}
