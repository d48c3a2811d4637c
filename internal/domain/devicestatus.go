package domain

import "encoding/json"

// Device power states accepted by the ingestor.
const (
	StateOn  = "ON"
	StateOff = "OFF"
)

// DeviceStatus is one entry of a device's append-only state history.
// PK: deviceId, SK: timestamp.
type DeviceStatus struct {
	DeviceID  string `json:"deviceId" dynamodbav:"deviceId"`
	Timestamp string `json:"timestamp" dynamodbav:"timestamp"`
	Status    string `json:"status" dynamodbav:"status"`
}

// StateEvent is an inbound device-state event, either from the message broker
// or posted directly. Payload may be a JSON-encoded string, an object, or absent,
// in which case State is read from the event itself.
type StateEvent struct {
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload,omitempty"`
	State   string          `json:"state,omitempty"`
}
