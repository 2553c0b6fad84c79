package dbus

// ShowRequest carries the parameters of an incoming Show call.
type ShowRequest struct {
	Text       string
	DurationMS int32 // <= 0 means the server's default
	Enter      string
	Exit       string
	Icon       string
}

// ServerInfo describes the toast service for GetServerInformation.
type ServerInfo struct {
	Name    string
	Vendor  string
	Version string
}

// DefaultServerInfo returns the default server information.
func DefaultServerInfo() ServerInfo {
	return ServerInfo{
		Name:    "toastd",
		Vendor:  "jmylchreest",
		Version: "dev",
	}
}
