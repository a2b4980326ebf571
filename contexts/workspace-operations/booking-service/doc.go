// Package bookingservice implements bookable resources and reservations.
//
// The overlap check and booking insert are atomic: the postgres adapter locks
// the resource row for the duration of the conflict scan, the memory adapter
// holds its mutex. Completed bookings emit booking.completed through the
// outbox so invoicing and notifications observe them asynchronously.
package bookingservice
