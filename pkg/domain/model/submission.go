package model

import "time"

// SubmissionStatus is the result indicator of the contact form
type SubmissionStatus string

const (
	SubmissionIdle       SubmissionStatus = "idle"
	SubmissionSubmitting SubmissionStatus = "submitting"
	SubmissionSuccess    SubmissionStatus = "success"
	SubmissionError      SubmissionStatus = "error"
)

// Field identifies one editable contact form field
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldMessage Field = "message"
)

// IsValid reports whether the field is one of the known form fields
func (f Field) IsValid() bool {
	switch f {
	case FieldName, FieldEmail, FieldMessage:
		return true
	default:
		return false
	}
}

// SubmissionRecord holds in-progress contact form input. It is never persisted.
type SubmissionRecord struct {
	Name    string `json:"name"`
	Email   string `json:"email" masq:"secret"`
	Message string `json:"message"`
}

// Get returns the value of the given field
func (r SubmissionRecord) Get(f Field) string {
	switch f {
	case FieldName:
		return r.Name
	case FieldEmail:
		return r.Email
	case FieldMessage:
		return r.Message
	default:
		return ""
	}
}

// Set updates the given field. Unknown fields are ignored.
func (r *SubmissionRecord) Set(f Field, value string) {
	switch f {
	case FieldName:
		r.Name = value
	case FieldEmail:
		r.Email = value
	case FieldMessage:
		r.Message = value
	}
}

// MissingFields returns required fields that are still empty, in form order
func (r SubmissionRecord) MissingFields() []Field {
	var missing []Field
	for _, f := range []Field{FieldName, FieldEmail, FieldMessage} {
		if r.Get(f) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// IsEmpty reports whether every field is empty
func (r SubmissionRecord) IsEmpty() bool {
	return r == SubmissionRecord{}
}

// RelayMessage is the payload handed to the relay service for one submission
type RelayMessage struct {
	FromName  string
	FromEmail string `masq:"secret"`
	Message   string `masq:"secret"`
	ToName    string
}

// SubmissionSnapshot is a consistent view of a controller's state
type SubmissionSnapshot struct {
	Status SubmissionStatus `json:"status"`
	Record SubmissionRecord `json:"record"`
}

// ContactSession is the API view of one visitor's contact form
type ContactSession struct {
	ID        string           `json:"id"`
	Status    SubmissionStatus `json:"status"`
	Record    SubmissionRecord `json:"record"`
	UpdatedAt time.Time        `json:"updated_at"`
}
