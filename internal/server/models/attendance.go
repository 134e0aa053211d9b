package models

// AttendanceRecord is one mark for Name on Date (YYYY-MM-DD, UTC).
// MarkedBy is the id of the user that submitted it.
type AttendanceRecord struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Date     string `json:"date"`
	MarkedBy int64  `json:"marked_by"`
}
