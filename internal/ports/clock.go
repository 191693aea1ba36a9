package ports

import "time"

// Clock abstracts time operations so the command poll loop can be driven
// without real sleeps in tests.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Sleep pauses execution for the specified duration.
	Sleep(d time.Duration)
}
