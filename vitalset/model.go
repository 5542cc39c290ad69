package vitalset

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// VitalSet is a single snapshot of a patient's vital signs.
// ID is assigned by the store on insert and never changes afterwards.
type VitalSet struct {
	ID               int64   `json:"id" msgpack:"id"`
	Username         string  `json:"username" msgpack:"username"`
	PatientFirstName string  `json:"patientFirstName" msgpack:"patient_first_name"`
	PatientLastName  string  `json:"patientLastName" msgpack:"patient_last_name"`
	Systolic         int     `json:"systolic" msgpack:"systolic"`
	Diastolic        int     `json:"diastolic" msgpack:"diastolic"`
	Pulse            int     `json:"pulse" msgpack:"pulse"`
	Respirations     int     `json:"respirations" msgpack:"respirations"`
	Spo2             int     `json:"spo2" msgpack:"spo2"`
	Temperature      float64 `json:"temperature" msgpack:"temperature"`
	Date             string  `json:"date" msgpack:"date"`
	Time             string  `json:"time" msgpack:"time"`
}

// Validate checks the fields a caller is expected to provide.
func (v VitalSet) Validate() error {
	return validation.ValidateStruct(&v,
		validation.Field(&v.Username, validation.Required),
		validation.Field(&v.Systolic, validation.Min(0)),
		validation.Field(&v.Diastolic, validation.Min(0)),
		validation.Field(&v.Pulse, validation.Min(0)),
		validation.Field(&v.Respirations, validation.Min(0)),
		validation.Field(&v.Spo2, validation.Min(0), validation.Max(100)),
		validation.Field(&v.Temperature, validation.Min(0.0)),
	)
}

// applyFrom copies every field except the identifier from src.
func (v *VitalSet) applyFrom(src VitalSet) {
	v.Username = src.Username
	v.PatientFirstName = src.PatientFirstName
	v.PatientLastName = src.PatientLastName
	v.Systolic = src.Systolic
	v.Diastolic = src.Diastolic
	v.Pulse = src.Pulse
	v.Respirations = src.Respirations
	v.Spo2 = src.Spo2
	v.Temperature = src.Temperature
	v.Date = src.Date
	v.Time = src.Time
}

// PayloadRequest is the message handed to the event publisher.
// It is never persisted.
type PayloadRequest struct {
	ExecutionTime int64  `json:"executionTime"`
	Signature     string `json:"signature"`
	Object        string `json:"object"`
}

func (p PayloadRequest) String() string {
	return fmt.Sprintf("PayloadRequest[executionTime=%d, signature=%s, object=%s]", p.ExecutionTime, p.Signature, p.Object)
}
