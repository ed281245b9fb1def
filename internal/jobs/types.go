package jobs

import "encoding/json"

const TaskRecordSearch = "history:record_search"

type RecordSearchPayload struct {
	UserID      string          `json:"user_id"`
	Query       string          `json:"query"`
	Filters     json.RawMessage `json:"filters,omitempty"`
	ResultCount int             `json:"result_count"`
}
