package models

import "time"

// AttendanceRecord is one check-in event. Rows are never updated in place.
type AttendanceRecord struct {
	ID           int64     `db:"id" json:"id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	LectureID    string    `db:"lecture_id" json:"lecture_id"`
	LectureDate  time.Time `db:"lecture_date" json:"lecture_date"`
	CheckInTime  time.Time `db:"check_in_time" json:"check_in_time"`
	IsManual     bool      `db:"is_manual" json:"is_manual"`
	CheckInImage *string   `db:"check_in_image" json:"check_in_image,omitempty"`
	ImageType    *string   `db:"image_type" json:"image_type,omitempty"`
	Latitude     *float64  `db:"latitude" json:"latitude"`
	Longitude    *float64  `db:"longitude" json:"longitude"`
}

// NewCheckIn captures what a caller may supply for a check-in. Date and time come from the datastore.
type NewCheckIn struct {
	StudentID    string
	LectureID    string
	CheckInImage *string
	Latitude     *float64
	Longitude    *float64
}

// CheckIn is a row of the day's attendance feed joined with roster names.
type CheckIn struct {
	StudentID    string    `db:"student_id" json:"student_id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	CheckInTime  time.Time `db:"check_in_time" json:"check_in_time"`
	Latitude     *float64  `db:"latitude" json:"latitude"`
	Longitude    *float64  `db:"longitude" json:"longitude"`
	CheckInImage *string   `db:"check_in_image" json:"check_in_image,omitempty"`
	ImageType    *string   `db:"image_type" json:"image_type,omitempty"`
}
