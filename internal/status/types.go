package status

import (
	"path/filepath"
	"time"

	"github.com/bro-exchange/bro-exchange/pkg/connector"
)

// Phase is where a request is in its generate, validate, deliver lifecycle
type Phase string

const (
	// PhaseGenerated means the request was written but not yet validated
	PhaseGenerated Phase = "Generated"

	// PhaseValid means the portal accepted the request during validation
	PhaseValid Phase = "Valid"

	// PhaseInvalid means the portal rejected the request during validation
	PhaseInvalid Phase = "Invalid"

	// PhaseDelivered means the request is part of a levering
	PhaseDelivered Phase = "Delivered"

	// PhaseFailed means the last portal call for the request failed
	PhaseFailed Phase = "Failed"
)

// DeliveryRecord is what is known locally about one request, keyed by its request reference
type DeliveryRecord struct {
	Reference string `json:"reference"`

	// File is the path the request was generated to or read from
	File string `json:"file,omitempty"`

	Phase Phase `json:"phase"`

	// Message provides additional information, e.g. the last error
	Message string `json:"message,omitempty"`

	ValidationStatus string   `json:"validationStatus,omitempty"`
	ValidationErrors []string `json:"validationErrors,omitempty"`

	DeliveryID     string `json:"deliveryId,omitempty"`
	DeliveryStatus string `json:"deliveryStatus,omitempty"`

	// BroID is filled in once the portal registered the sourcedocument
	BroID string `json:"broId,omitempty"`

	// LastAttempt is the timestamp of the last portal call
	LastAttempt *time.Time `json:"lastAttempt,omitempty"`

	// AttemptCount is the number of failed portal calls since the last success
	AttemptCount int `json:"attemptCount,omitempty"`
}

// RecordValidation stores the outcome of a validation call
func (r *DeliveryRecord) RecordValidation(res *connector.ValidationResult, now time.Time) {
	r.LastAttempt = &now
	r.AttemptCount = 0
	r.Message = ""
	r.ValidationStatus = res.Status
	r.ValidationErrors = res.Errors
	if res.Valid() {
		r.Phase = PhaseValid
	} else {
		r.Phase = PhaseInvalid
	}
}

// RecordDelivery stores the delivery the request became part of, or its refreshed status
func (r *DeliveryRecord) RecordDelivery(d *connector.Delivery, now time.Time) {
	r.LastAttempt = &now
	r.AttemptCount = 0
	r.Message = ""
	r.Phase = PhaseDelivered
	r.DeliveryID = d.Identifier
	r.DeliveryStatus = d.Status
	for _, doc := range d.Documents {
		if doc.BroID != "" && (r.File == "" || doc.Filename == filepath.Base(r.File)) {
			r.BroID = doc.BroID
		}
	}
}

// RecordFailure stores a failed portal call. The phase is kept once delivered.
func (r *DeliveryRecord) RecordFailure(err error, now time.Time) {
	r.LastAttempt = &now
	r.AttemptCount++
	r.Message = err.Error()
	if r.Phase != PhaseDelivered {
		r.Phase = PhaseFailed
	}
}
