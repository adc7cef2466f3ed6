package domain

import (
	"errors"
	"testing"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in   string
		want AppointmentStatus
	}{
		{"pending", StatusPending},
		{"Completed", StatusCompleted},
		{" CANCELLED ", StatusCancelled},
		{"Bekliyor", StatusPending},
		{"Tamamlandı", StatusCompleted},
		{"İptal", StatusCancelled},
	}
	for _, tc := range cases {
		got, err := ParseStatus(tc.in)
		if err != nil {
			t.Fatalf("ParseStatus(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseStatus(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "done", "bekleniyor", "Archived"} {
		if _, err := ParseStatus(bad); !errors.Is(err, ErrInvalidStatus) {
			t.Fatalf("ParseStatus(%q) err = %v; want ErrInvalidStatus", bad, err)
		}
	}
}

func TestStatus_ValidAndOccupiesSlot(t *testing.T) {
	if !StatusPending.Valid() || !StatusCompleted.Valid() || !StatusCancelled.Valid() {
		t.Fatalf("known statuses must be valid")
	}
	if AppointmentStatus("Bekliyor").Valid() {
		t.Fatalf("legacy label must not be valid as a stored status")
	}
	if !StatusPending.OccupiesSlot() || !StatusCompleted.OccupiesSlot() {
		t.Fatalf("pending and completed must occupy their slot")
	}
	if StatusCancelled.OccupiesSlot() {
		t.Fatalf("cancelled must free its slot")
	}
}
