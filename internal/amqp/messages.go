package amqp

import (
	"encoding/json"
	"time"
)

// GoalProgressMessage asks the worker to apply a check-in's added value
// to its goal's running total. The check-in row already exists when
// this message is published; the goal update happens when the worker
// processes it.
type GoalProgressMessage struct {
	GoalID     int64     `json:"goal_id"`
	CheckInID  int64     `json:"check_in_id"`
	AddedCents int64     `json:"added_cents"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewGoalProgressMessage(goalID, checkInID, addedCents int64) *GoalProgressMessage {
	return &GoalProgressMessage{
		GoalID:     goalID,
		CheckInID:  checkInID,
		AddedCents: addedCents,
		Timestamp:  time.Now(),
	}
}

func (m *GoalProgressMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func GoalProgressMessageFromJSON(data []byte) (*GoalProgressMessage, error) {
	var msg GoalProgressMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ReportExportMessage asks the worker to export a month's records to
// the configured spreadsheet.
type ReportExportMessage struct {
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Timestamp time.Time `json:"timestamp"`
}

func NewReportExportMessage(year, month int) *ReportExportMessage {
	return &ReportExportMessage{
		Year:      year,
		Month:     month,
		Timestamp: time.Now(),
	}
}

func (m *ReportExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReportExportMessageFromJSON(data []byte) (*ReportExportMessage, error) {
	var msg ReportExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
