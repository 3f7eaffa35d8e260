package contact

import (
	"context"
	"errors"
	"sync"
)

// ErrAlreadySubmitting is returned by Submit while a submission is in flight.
var ErrAlreadySubmitting = errors.New("already submitting")

// Status is the state of a Form.
type Status int

const (
	Idle Status = iota
	Submitting
	Success
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Failed:
		return "error"
	}
	return "unknown"
}

// Form holds the contact form fields and its submission state.
type Form struct {
	mu     sync.Mutex
	relay  Relay
	fields Message
	status Status
	err    error

	// OnStatus observes every transition.
	OnStatus func(Status)
}

// NewForm returns an idle form delivering through relay.
func NewForm(relay Relay) *Form {
	return &Form{relay: relay}
}

// SetFields replaces the form fields.
func (f *Form) SetFields(m Message) {
	f.mu.Lock()
	f.fields = m
	f.mu.Unlock()
}

// Fields returns the current fields.
func (f *Form) Fields() Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// Status returns the submission state.
func (f *Form) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Err returns the last submission error.
func (f *Form) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Notice is the message shown under the form.
func (f *Form) Notice() string { return f.Status().Notice() }

// Notice is the message shown under a form in status s.
func (s Status) Notice() string {
	switch s {
	case Success:
		return "Thank you! Your message has been sent successfully."
	case Failed:
		return "Sorry, there was an error sending your message. Please try again."
	}
	return ""
}

func (f *Form) transition(s Status) {
	f.status = s
	if f.OnStatus != nil {
		f.OnStatus(s)
	}
}

// Submit validates and sends the fields. On success the fields are cleared;
// on failure they are kept so the visitor can retry by hand.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	return f.submitLocked(ctx)
}

// Send replaces the fields with m and submits them. While a submission is
// in flight it returns ErrAlreadySubmitting and leaves the fields as they are.
func (f *Form) Send(ctx context.Context, m Message) error {
	f.mu.Lock()
	if f.status != Submitting {
		f.fields = m
	}
	return f.submitLocked(ctx)
}

// submitLocked is entered with f.mu held and releases it.
func (f *Form) submitLocked(ctx context.Context) error {
	if f.status == Submitting {
		f.mu.Unlock()
		return ErrAlreadySubmitting
	}
	m := f.fields
	f.transition(Submitting)
	f.mu.Unlock()

	err := m.Validate()
	if err == nil {
		err = f.relay.Send(ctx, m)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
	if err != nil {
		f.transition(Failed)
		return err
	}
	f.fields = Message{}
	f.transition(Success)
	return nil
}
