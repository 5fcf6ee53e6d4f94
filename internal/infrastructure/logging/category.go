package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General         Category = "General"
	IO              Category = "IO"
	Internal        Category = "Internal"
	Game            Category = "Game"
	RabbitMQ        Category = "RabbitMQ"
	Mongo           Category = "Mongo"
	Validation      Category = "Validation"
	RequestResponse Category = "RequestResponse"
	Prometheus      Category = "Prometheus"
)

const (
	// General
	Startup         SubCategory = "Startup"
	Shutdown        SubCategory = "Shutdown"
	RateLimiting    SubCategory = "RateLimiting"
	ExternalService SubCategory = "ExternalService"

	// Game
	RoomLifecycle SubCategory = "RoomLifecycle"
	GameFlow      SubCategory = "GameFlow"
	Scoring       SubCategory = "Scoring"
	Chat          SubCategory = "Chat"
	Timers        SubCategory = "Timers"
	Websocket     SubCategory = "Websocket"
)

const (
	AppName      ExtraKey = "AppName"
	LoggerName   ExtraKey = "Logger"
	ClientIp     ExtraKey = "ClientIp"
	HostIp       ExtraKey = "HostIp"
	Method       ExtraKey = "Method"
	StatusCode   ExtraKey = "StatusCode"
	BodySize     ExtraKey = "BodySize"
	Path         ExtraKey = "Path"
	Latency      ExtraKey = "Latency"
	ErrorMessage ExtraKey = "ErrorMessage"

	RoomCode  ExtraKey = "RoomCode"
	PlayerId  ExtraKey = "PlayerId"
	Phase     ExtraKey = "Phase"
	EventName ExtraKey = "EventName"
)
