package domain

// CheckoutStatus is the provider-side lifecycle of a checkout session. The
// service never tracks it after creation.
type CheckoutStatus string

const (
	CheckoutPending   CheckoutStatus = "pending"
	CheckoutCompleted CheckoutStatus = "completed"
	CheckoutExpired   CheckoutStatus = "expired"
)

// CheckoutStage names the step a checkout attempt reached.
type CheckoutStage string

const (
	StageRequested              CheckoutStage = "requested"
	StageResolved               CheckoutStage = "resolved"
	StageValidated              CheckoutStage = "validated"
	StageProviderSessionCreated CheckoutStage = "provider_session_created"
)

// CheckoutReference links a provider session back to the booking attempt.
type CheckoutReference struct {
	AttemptID   string
	PrincipalID string
	DoctorID    string
}

// CheckoutSession is the provider handle returned to the caller.
type CheckoutSession struct {
	ID          string         `json:"session_id"`
	PrincipalID string         `json:"-"`
	DoctorID    string         `json:"doctor_id"`
	Amount      float64        `json:"amount"`
	Currency    string         `json:"currency"`
	Status      CheckoutStatus `json:"status"`
	RedirectURL string         `json:"url"`
}
