package domain

import "fmt"

// Decision is the outcome of consulting the lifecycle gate.
type Decision struct {
	Allowed bool
	Code    ErrorCode
}

var allow = Decision{Allowed: true}

// legality maps (state, operation) to a decision. Pairs not listed are denied as QUOTE_STATE_INVALID.
var legality = map[State]map[OperationKind]Decision{
	StateDraft: {
		OpUpdate: allow,
		OpDelete: allow,
	},
	StateSent: {
		OpUpdate: {Code: CodeAlreadySent},
		OpDelete: {Code: CodeStateInvalid},
	},
}

// Decide answers whether op is legal for a quote in state s. It is pure.
func Decide(s State, op OperationKind) Decision {
	if d, ok := legality[s][op]; ok {
		return d
	}

	return Decision{Code: CodeStateInvalid}
}

// CheckTransition returns nil when op is legal in state s, otherwise the state error.
func CheckTransition(s State, op OperationKind) *QuoteError {
	d := Decide(s, op)
	if d.Allowed {
		return nil
	}

	details := map[string]any{"state": string(s), "operation": string(op)}

	if d.Code == CodeAlreadySent {
		return NewError(CodeAlreadySent,
			"quote has already been sent to the client; create a revision instead", details)
	}

	return NewError(CodeStateInvalid,
		fmt.Sprintf("operation %s is not allowed for a quote in state %s", op, s), details)
}
