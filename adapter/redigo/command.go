package redigo

const (
	CommandExists = "EXISTS"
	CommandGet    = "GET"
	CommandSet    = "SET"
	CommandDel    = "DEL"
)
