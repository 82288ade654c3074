package workorder

import (
	"github.com/liuyunyi0210-blip/tsa-repair-system-sub000/internal/models"
)

// Field names as they appear on the wire, used in required-field checklists
// and missing-field errors.
const (
	FieldVendor                = "vendor"
	FieldAmount                = "amount"
	FieldProcessingDescription = "processing_description"
	FieldReporter              = "reporter"
	FieldIsSignedSent          = "is_signed_sent"
	FieldSignedSentDate        = "signed_sent_date"
	FieldPaymentEntity         = "payment_entity"
	FieldIsWorkFinished        = "is_work_finished"
	FieldCompletionDate        = "completion_date"
	FieldIsInvoiceConfirmed    = "is_invoice_confirmed"
	FieldIsPaymentSent         = "is_payment_sent"
	FieldPaymentDate           = "payment_date"
)

// legalStageStatus maps the number of completed LEGAL stages to the status
// the record has earned. Stage 0 means no stage complete yet.
var legalStageStatus = [5]models.Status{
	models.StatusPending,
	models.StatusInProgress,
	models.StatusSigned,
	models.StatusConstructionDone,
	models.StatusClosed,
}

// missingInternal lists the fields still required before an INTERNAL record
// may close.
func missingInternal(wo models.WorkOrder) []string {
	var m []string
	if wo.CompletionDate == nil {
		m = append(m, FieldCompletionDate)
	}
	if wo.Reporter == "" {
		m = append(m, FieldReporter)
	}
	if wo.ProcessingDescription == "" {
		m = append(m, FieldProcessingDescription)
	}
	return m
}

// missingLegalStage lists fields still required for the given LEGAL stage
// (1 through 4), looking only at that stage's own checklist.
func missingLegalStage(wo models.WorkOrder, stage int) []string {
	var m []string
	switch stage {
	case 1: // basic/vendor data
		if wo.Vendor == "" {
			m = append(m, FieldVendor)
		}
		if wo.Amount == nil {
			m = append(m, FieldAmount)
		}
		if wo.ProcessingDescription == "" {
			m = append(m, FieldProcessingDescription)
		}
		if wo.Reporter == "" {
			m = append(m, FieldReporter)
		}
	case 2: // sign-off
		if !wo.IsSignedSent {
			m = append(m, FieldIsSignedSent)
		}
		if wo.SignedSentDate == nil {
			m = append(m, FieldSignedSentDate)
		}
	case 3: // construction
		if wo.PaymentEntity == "" {
			m = append(m, FieldPaymentEntity)
		}
		if !wo.IsWorkFinished {
			m = append(m, FieldIsWorkFinished)
		}
		if wo.CompletionDate == nil {
			m = append(m, FieldCompletionDate)
		}
	case 4: // payment / closure
		if !wo.IsInvoiceConfirmed {
			m = append(m, FieldIsInvoiceConfirmed)
		}
		if !wo.IsPaymentSent {
			m = append(m, FieldIsPaymentSent)
		}
		if wo.PaymentDate == nil {
			m = append(m, FieldPaymentDate)
		}
	}
	return m
}

// legalStage returns the highest LEGAL stage the record has fully completed,
// counting cumulatively: stage N only counts when stages 1..N-1 are also
// complete.
func legalStage(wo models.WorkOrder) int {
	for stage := 1; stage <= 4; stage++ {
		if len(missingLegalStage(wo, stage)) > 0 {
			return stage - 1
		}
	}
	return 4
}

// Acknowledge is the manual confirm action: an operator accepts a request and
// the record enters IN_PROGRESS. Acknowledging a record already in progress
// is a no-op; records past IN_PROGRESS are never pulled back.
func Acknowledge(wo models.WorkOrder) (models.Status, *TransitionError) {
	cur := wo.Status
	if !KnownStatus(cur) {
		return cur, &TransitionError{Kind: KindUnknownStatus}
	}
	if cur == models.StatusClosed {
		return cur, &TransitionError{Kind: KindClosed}
	}
	if cur == models.StatusInProgress {
		return cur, nil
	}
	if !CanTransition(cur, models.StatusInProgress) {
		return cur, &TransitionError{Kind: KindBackward}
	}
	return models.StatusInProgress, nil
}

// NextStatus computes the status a merged record has earned under its chosen
// processing method. The result never moves backwards: a record that already
// advanced keeps its status when a later save only touches earlier-stage
// fields.
//
// With shouldClose set, the caller insists on reaching CLOSED; if the
// record's fields do not support that, a TransitionError naming the first
// missing requirement is returned and no status change should be applied.
func NextStatus(wo models.WorkOrder, shouldClose bool) (models.Status, *TransitionError) {
	cur := wo.Status
	if !KnownStatus(cur) {
		return cur, &TransitionError{Kind: KindUnknownStatus}
	}
	if cur == models.StatusClosed {
		return cur, &TransitionError{Kind: KindClosed}
	}

	switch wo.ProcessingMethod {
	case models.MethodInternal:
		missing := missingInternal(wo)
		if len(missing) == 0 {
			return models.StatusClosed, nil
		}
		if shouldClose {
			return cur, missingField(missing[0])
		}
		return cur, nil

	case models.MethodLegal:
		stage := legalStage(wo)
		if shouldClose && stage < 4 {
			return cur, missingField(missingLegalStage(wo, stage+1)[0])
		}
		earned := legalStageStatus[stage]
		if earned != cur && !IsForward(cur, earned) {
			return cur, nil
		}
		return earned, nil

	default:
		// No processing method chosen yet: a plain save keeps the status, a
		// close attempt is refused.
		if shouldClose {
			return cur, &TransitionError{Kind: KindNoMethod}
		}
		return cur, nil
	}
}

// RequiredFields answers "what does this transition need": the checklist of
// fields that must be set before a record of the given processing method can
// reach the target status. It is what a form renderer asks for; the state
// machine itself re-validates on submit.
func RequiredFields(method models.Method, target models.Status) []string {
	switch method {
	case models.MethodInternal:
		if target == models.StatusClosed {
			return []string{FieldCompletionDate, FieldReporter, FieldProcessingDescription}
		}
	case models.MethodLegal:
		switch target {
		case models.StatusInProgress:
			return []string{FieldVendor, FieldAmount, FieldProcessingDescription, FieldReporter}
		case models.StatusSigned:
			return []string{FieldIsSignedSent, FieldSignedSentDate}
		case models.StatusConstructionDone:
			return []string{FieldPaymentEntity, FieldIsWorkFinished, FieldCompletionDate}
		case models.StatusClosed:
			return []string{FieldIsInvoiceConfirmed, FieldIsPaymentSent, FieldPaymentDate}
		}
	}
	return nil
}
