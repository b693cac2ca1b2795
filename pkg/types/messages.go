package types

// Client -> Server
//
// Hello, sent once after the socket opens:
//   status: "connected"
//
// ActionMessage:
//   action: key from the most recent Observation.actions

type Hello struct {
	Status string `json:"status"`
}

type ActionMessage struct {
	Action string `json:"action"`
}

func NewHello() Hello { return Hello{Status: "connected"} }
