package uis

import "fmt"

// QuotaError reports that the subscription's observation quota is exhausted.
// Retryable: the quota refills over time.
type QuotaError struct {
	URL string
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("quota exceeded fetching %s", e.URL)
}

// NotFoundError reports that the API has no document at the URL. Callers
// treat this as "no data here", not as a failure.
type NotFoundError struct {
	URL string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s", e.URL)
}

// StatusError reports any other non-200 response.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("UIS returned %d for %s: %s", e.StatusCode, e.URL, e.Body)
}
