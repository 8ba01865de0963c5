package workers

import (
	"math/rand"
	"time"

	"github.com/kevin07696/payment-gateway/internal/domain"
)

// Success probabilities for simulated processing, by method.
const (
	upiSuccessRate  = 0.90
	cardSuccessRate = 0.95
)

// Simulator decides the delay and outcome of simulated processing. In test
// mode both are deterministic so end-to-end runs can assert exact results.
type Simulator struct {
	TestMode     bool
	Delay        time.Duration
	ForceSuccess bool
}

// PaymentDelay returns how long payment processing takes: the configured
// delay in test mode, 5 to 10 seconds otherwise.
func (s Simulator) PaymentDelay() time.Duration {
	if s.TestMode {
		return s.Delay
	}
	return 5*time.Second + time.Duration(rand.Int63n(int64(5*time.Second)))
}

// RefundDelay returns how long refund processing takes: the configured delay
// in test mode, 3 to 5 seconds otherwise.
func (s Simulator) RefundDelay() time.Duration {
	if s.TestMode {
		return s.Delay
	}
	return 3*time.Second + time.Duration(rand.Int63n(int64(2*time.Second)))
}

// PaymentSucceeds decides the payment outcome.
func (s Simulator) PaymentSucceeds(method domain.PaymentMethod) bool {
	if s.TestMode {
		return s.ForceSuccess
	}
	if method == domain.MethodCard {
		return rand.Float64() < cardSuccessRate
	}
	return rand.Float64() < upiSuccessRate
}
