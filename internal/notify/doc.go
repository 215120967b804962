// Package notify implements the in-process fan-out used for auth change
// notifications.
//
// Delivery is synchronous and in subscription order. Function listeners run
// on the publishing goroutine; channel subscribers receive with a non-blocking
// send and lose the value when their buffer is full.
//
// # What this package must NOT do
//
//   - Replay past values to new subscribers.
//   - Hold its own lock while invoking listeners.
package notify
