package models

// User is one configured bot instance. ID is stable and partitions every
// per-user poll key.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	BotDir string `json:"bot_dir"` // opaque path, not interpreted here
	Color  string `json:"color"`
}

// ServiceStatus is the systemd liveness probe for one bot instance.
type ServiceStatus struct {
	Service string `json:"service"`
	Status  string `json:"status"` // "active" | "inactive" | "failed"
	Running bool   `json:"running"`
}
