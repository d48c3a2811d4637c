package domain

import "fmt"

// CommandTopicPrefix is the pub/sub namespace device commands are published under.
const CommandTopicPrefix = "smarthome/commands/"

// CommandRequest is the inbound device command. Brightness is a pointer so that
// an absent value can be told apart from zero.
type CommandRequest struct {
	DeviceID   string   `json:"deviceId" validate:"required"`
	State      string   `json:"state" validate:"required"`
	Brightness *float64 `json:"brightness" validate:"required"`
}

// CommandPayload is the body published to the device topic.
type CommandPayload struct {
	State      string  `json:"state"`
	Brightness float64 `json:"brightness"`
}

// CommandTopic returns the topic a command for deviceID is published to.
func CommandTopic(deviceID string) string {
	return fmt.Sprintf("%s%s", CommandTopicPrefix, deviceID)
}
