package models

type StatsResponse struct {
	CommandsTotal  int64            `json:"commands_total"`
	CommandCounts  map[string]int64 `json:"command_counts"`
	RecordCounts   map[string]int64 `json:"record_counts"`
	UsingFallback  bool             `json:"using_fallback"`
	GeneratedAtUTC string           `json:"generated_at"`
}
