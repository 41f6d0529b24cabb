package invocation

import "fmt"

// Invocation couples a call type with the target identity it addresses. It is
// the unit the history gate, the recorder and the orchestrator all agree on.
type Invocation struct {
	CallType CallType
	Target   Target
}

// New builds an invocation for the given call type and target.
func New(callType CallType, target Target) Invocation {
	return Invocation{CallType: callType, Target: target}
}

func (inv Invocation) String() string {
	return fmt.Sprintf("%s for %s", inv.CallType, inv.Target)
}
