package usecase

// Poll slot keys. Per-user data is partitioned by user ID so switching
// users tears down one set of slots and builds another.

const (
	keyUsers  = "users"
	keyTicker = "ticker"
	keyChart  = "chart"
)

func KeyUsers() string  { return keyUsers }
func KeyTicker() string { return keyTicker }
func KeyChart() string  { return keyChart }

func KeySignals(userID string) string      { return "signals:" + userID }
func KeyTrades(userID string) string       { return "trades:" + userID }
func KeyPositions(userID string) string    { return "positions:" + userID }
func KeyEquity(userID string) string       { return "equity:" + userID }
func KeyStats(userID string) string        { return "stats:" + userID }
func KeyLatestSignal(userID string) string { return "latest_signal:" + userID }
func KeyServiceStatus(userID string) string {
	return "service_status:" + userID
}
