package item

import "time"

// Item is a static geofenced point of interest an athlete picks up by
// running within the capture radius.
type Item struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	UID        string    `json:"uid"`
	Value      int       `json:"value"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	PictureURL string    `json:"picture,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
