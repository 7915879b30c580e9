// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeyErrorGeneric      = "error.generic"
	KeyUpstreamFailed    = "error.upstream"
	KeyValidationInvalid = "validation.invalid"
	KeyRateLimited       = "rate_limit.exceeded"

	// Authentication
	KeyAuthRequired     = "auth.required"
	KeyAuthInvalidToken = "auth.invalid_token"
	KeyAuthForbidden    = "auth.forbidden"

	// Lifecycle gating
	KeyActionFailed           = "action.failed"
	KeyActionInProgress       = "action.in_progress"
	KeyActionNotAllowed       = "action.not_allowed"
	KeyActionTerminal         = "action.terminal"
	KeyActionNotParty         = "action.not_party"
	KeyActionStaffOnly        = "action.staff_only"
	KeyActionAlreadyConfirmed = "action.already_confirmed"
	KeyActionReasonRequired   = "action.reason_required"
	KeyConfirmationRequired   = "action.confirmation_required"

	// Blocking prompts
	KeyPromptAppointmentConfirm = "prompt.appointment.confirm"
	KeyPromptAppointmentReject  = "prompt.appointment.reject"
	KeyPromptAppointmentCancel  = "prompt.appointment.cancel"
	KeyPromptAppointmentCreate  = "prompt.appointment.create"
	KeyPromptContractUpload     = "prompt.contract.upload"
	KeyPromptContractComplete   = "prompt.contract.complete"
	KeyPromptContractCancel     = "prompt.contract.cancel"
	KeyPromptDepositCreate      = "prompt.payment.deposit"
	KeyPromptRemainingQR        = "prompt.payment.remaining_qr"
	KeyPromptFullQR             = "prompt.payment.full_qr"
	KeyPromptPayRemaining       = "prompt.payment.pay_remaining"

	// Evidence
	KeyEvidenceTooMany      = "evidence.too_many"
	KeyEvidenceIncomplete   = "evidence.incomplete"
	KeyEvidenceInvalidImage = "evidence.invalid_image"

	// Entities
	KeyAppointmentNotFound = "appointment.not_found"
	KeyAppointmentCreated  = "appointment.created"
	KeyContractNotFound    = "contract.not_found"
	KeyTransactionNotFound = "transaction.not_found"
	KeyActivityNotFound    = "activity.not_found"

	// Payments
	KeyPaymentURLMissing  = "payment.url_missing"
	KeyPaymentKindFull    = "payment.kind.full"
	KeyPaymentKindDeposit = "payment.kind.deposit"

	// Realtime
	KeyRealtimeUnavailable = "realtime.unavailable"
)
