package models

// Lecture is a pre-seeded lecture section owned by one lecturer.
type Lecture struct {
	LectureID     string `db:"lecture_id" json:"lecture_id"`
	LecturerName  string `db:"lecturer_name" json:"lecturer_name"`
	LecturerEmail string `db:"lecturer_email" json:"lecturer_email"`
}
