package domain

// Schedule is an on/off schedule for one device in one room.
// PK: roomName, SK: deviceName, so saving again replaces the previous schedule.
type Schedule struct {
	RoomName    string `json:"roomName" dynamodbav:"roomName"`
	DeviceName  string `json:"deviceName" dynamodbav:"deviceName"`
	TurnOnTime  string `json:"turnOnTime" dynamodbav:"turnOnTime"`
	TurnOffTime string `json:"turnOffTime" dynamodbav:"turnOffTime"`
	CreatedAt   string `json:"createdAt" dynamodbav:"createdAt"`
}

// ScheduleInput carries the four schedule fields, merged from query and body.
type ScheduleInput struct {
	RoomName    string `json:"roomName" validate:"required"`
	DeviceName  string `json:"deviceName" validate:"required"`
	TurnOffTime string `json:"turnOffTime" validate:"required"`
	TurnOnTime  string `json:"turnOnTime" validate:"required"`
}
