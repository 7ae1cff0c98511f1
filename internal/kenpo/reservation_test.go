package kenpo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildResortReservation(t *testing.T) {
	fields := map[string]string{
		"url":       "https://reserve.example.com/r/1",
		"service":   "Resort A",
		"from_date": "2026-10-01",
		"nights":    "2",
		"headcount": "3",
		"name":      "Yamada Taro",
	}

	r := BuildResortReservation(fields)

	assert.Equal(t, "https://reserve.example.com/r/1", r.ReservationURL)
	assert.Equal(t, "Resort A", r.Service)
	assert.Equal(t, "2", r.Nights)
	assert.Equal(t, "3", r.Headcount)
	// missing fields are present but empty, never an error
	assert.Empty(t, r.Tel)
	assert.Empty(t, r.Relation)
}

func TestBuildKaikanReservation(t *testing.T) {
	fields := map[string]string{
		"use_date":   "2026-10-01",
		"start_time": "13:00",
		"end_time":   "17:00",
		"purpose":    "meeting",
	}

	r := BuildKaikanReservation(fields)

	assert.Equal(t, "13:00", r.StartTime)
	assert.Equal(t, "17:00", r.EndTime)
	assert.Equal(t, "meeting", r.Purpose)
	assert.Empty(t, r.Headcount)
}
