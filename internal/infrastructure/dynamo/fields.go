package dynamo

// DynamoDB attribute names used in keys and key conditions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldUsername   = "username"
	fieldTimestamp  = "timestamp"
	fieldDeviceID   = "deviceId"
	fieldRoomName   = "roomName"
	fieldDeviceName = "deviceName"
)
