package flora

import "fmt"

// Explain renders a one-line description of a probe result for the HUD.
func Explain(r Result) string {
	if r.Success {
		return fmt.Sprintf("success: contact=%.2f, wind penalty=%.2f (flower %d)",
			r.ContactProb, r.WindPenalty, r.FlowerID)
	}
	reason := "low contact"
	if !r.ReachOK {
		reason = "proboscis too short"
	}
	return fmt.Sprintf("fail: %s, contact=%.2f, wind penalty=%.2f (flower %d)",
		reason, r.ContactProb, r.WindPenalty, r.FlowerID)
}
