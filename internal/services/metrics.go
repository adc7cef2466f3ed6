package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// appointmentsBooked counts successful Book calls.
	appointmentsBooked = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "randevu_appointments_booked_total",
		Help: "Total number of appointments booked.",
	})

	// slotConflicts counts rejected writes because the slot was taken,
	// whether detected by the pre-check or by the unique index.
	slotConflicts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "randevu_slot_conflicts_total",
		Help: "Total number of booking or reschedule attempts rejected for an occupied slot.",
	})

	// transactionsRecorded counts ledger rows created by completions.
	transactionsRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "randevu_transactions_recorded_total",
		Help: "Total number of cash-register transactions recorded from completed appointments.",
	})
)

func init() {
	prometheus.MustRegister(appointmentsBooked, slotConflicts, transactionsRecorded)
}
