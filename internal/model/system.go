package model

// HealthInfo describes the state of the dashboard process.
type HealthInfo struct {
	Status        string `json:"status"`
	Session       string `json:"session"`
	LastRefreshed string `json:"lastRefreshed,omitempty"`
}
