package store

import (
	"github.com/uptrace/bun"

	"github.com/goliatone/go-vitaltrend/vitalset"
)

// vitalSetModel is the row mapping of vitalset.VitalSet.
type vitalSetModel struct {
	bun.BaseModel `bun:"table:vital_sets,alias:vs"`

	ID               int64   `bun:"id,pk,autoincrement"`
	Username         string  `bun:"username,notnull"`
	PatientFirstName string  `bun:"patient_first_name"`
	PatientLastName  string  `bun:"patient_last_name"`
	Systolic         int     `bun:"systolic"`
	Diastolic        int     `bun:"diastolic"`
	Pulse            int     `bun:"pulse"`
	Respirations     int     `bun:"respirations"`
	Spo2             int     `bun:"spo2"`
	Temperature      float64 `bun:"temperature"`
	Date             string  `bun:"date"`
	Time             string  `bun:"time"`
}

func newModel(rec vitalset.VitalSet) *vitalSetModel {
	return &vitalSetModel{
		ID:               rec.ID,
		Username:         rec.Username,
		PatientFirstName: rec.PatientFirstName,
		PatientLastName:  rec.PatientLastName,
		Systolic:         rec.Systolic,
		Diastolic:        rec.Diastolic,
		Pulse:            rec.Pulse,
		Respirations:     rec.Respirations,
		Spo2:             rec.Spo2,
		Temperature:      rec.Temperature,
		Date:             rec.Date,
		Time:             rec.Time,
	}
}

func (m *vitalSetModel) toRecord() vitalset.VitalSet {
	return vitalset.VitalSet{
		ID:               m.ID,
		Username:         m.Username,
		PatientFirstName: m.PatientFirstName,
		PatientLastName:  m.PatientLastName,
		Systolic:         m.Systolic,
		Diastolic:        m.Diastolic,
		Pulse:            m.Pulse,
		Respirations:     m.Respirations,
		Spo2:             m.Spo2,
		Temperature:      m.Temperature,
		Date:             m.Date,
		Time:             m.Time,
	}
}
