package session

import (
	"encoding/json"
	"errors"
)

// ErrRecordCorrupt is returned when a stored record cannot be decoded.
var ErrRecordCorrupt = errors.New("refresh record corrupt")

// Record is the persisted refresh-token state for one subject.
type Record struct {
	Token     string `json:"token"`
	SubjectID string `json:"subjectId"`
	CreatedAt int64  `json:"createdAt"`
}

// Encode serializes r for storage.
func Encode(r *Record) (string, error) {
	if r == nil || r.Token == "" || r.SubjectID == "" {
		return "", errors.New("refresh record requires token and subject")
	}
	data, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode parses a stored record.
func Decode(raw string) (*Record, error) {
	var r Record
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, ErrRecordCorrupt
	}
	if r.Token == "" || r.SubjectID == "" {
		return nil, ErrRecordCorrupt
	}
	return &r, nil
}
