package forms

import (
	"net/url"
	"time"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// Outcome is what a form submission produces for the page: a banner message,
// an optional delayed redirect and the values to re-populate the form with.
type Outcome struct {
	Kind          Kind
	Message       string
	RedirectTo    string
	RedirectAfter time.Duration
	// Loading keeps the submit control disabled while a redirect is pending.
	Loading     bool
	FieldErrors map[string]string
	Values      url.Values
	// SessionChanged tells the caller to persist the session.
	SessionChanged bool
}

// Redirecting reports whether the page should navigate right away.
func (o Outcome) Redirecting() bool {
	return o.RedirectTo != "" && o.RedirectAfter == 0
}

func failure(msg string, values url.Values) Outcome {
	return Outcome{Kind: KindError, Message: msg, Values: values}
}
