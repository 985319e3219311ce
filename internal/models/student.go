package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ImageTypeBase64 tags image payloads stored as base64 strings or data URLs.
const ImageTypeBase64 = "base64"

// FaceDescriptor is the numeric face feature vector produced by the check-in client.
// It is stored as JSON text and never interpreted server-side.
type FaceDescriptor []float64

// Value serialises the descriptor for storage.
func (d FaceDescriptor) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	raw, err := json.Marshal([]float64(d))
	if err != nil {
		return nil, fmt.Errorf("encode face descriptor: %w", err)
	}
	return string(raw), nil
}

// Scan deserialises a stored descriptor.
func (d *FaceDescriptor) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*d = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("decode face descriptor: unsupported type %T", src)
	}
	var values []float64
	if err := json.Unmarshal(raw, &values); err != nil {
		return fmt.Errorf("decode face descriptor: %w", err)
	}
	*d = values
	return nil
}

// Student is a roster entry. StudentID is unique within a lecture only.
type Student struct {
	StudentID      string         `db:"student_id" json:"student_id"`
	LectureID      string         `db:"lecture_id" json:"lecture_id"`
	FirstName      string         `db:"first_name" json:"first_name"`
	LastName       string         `db:"last_name" json:"last_name"`
	FaceDescriptor FaceDescriptor `db:"face_descriptor" json:"face_descriptor"`
	ProfileImage   *string        `db:"profile_image" json:"profile_image,omitempty"`
	ImageType      *string        `db:"image_type" json:"image_type,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
}
