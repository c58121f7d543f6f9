package recovery

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
}

const recoverPath = "/auth/recover"

// RegisterSteps registers account recovery step definitions.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &recoverySteps{tc: tc}

	ctx.Step(`^I request recovery for "([^"]*)" "([^"]*)" born "([^"]*)"$`, steps.requestRecovery)
	ctx.Step(`^I request recovery for "([^"]*)" "([^"]*)" born "([^"]*)" with email "([^"]*)"$`, steps.requestRecoveryWithEmail)
	ctx.Step(`^I request recovery (\d+) times for "([^"]*)" "([^"]*)" born "([^"]*)"$`, steps.requestRecoveryTimes)
}

type recoverySteps struct {
	tc TestContext
}

func (s *recoverySteps) requestRecovery(_ context.Context, first, last, dob string) error {
	return s.tc.POST(recoverPath, map[string]string{
		"first_name":    first,
		"last_name":     last,
		"date_of_birth": dob,
	})
}

func (s *recoverySteps) requestRecoveryWithEmail(_ context.Context, first, last, dob, email string) error {
	return s.tc.POST(recoverPath, map[string]string{
		"first_name":    first,
		"last_name":     last,
		"date_of_birth": dob,
		"email":         email,
	})
}

// requestRecoveryTimes stops early on a transport error only; status checks
// are left to later steps.
func (s *recoverySteps) requestRecoveryTimes(ctx context.Context, n int, first, last, dob string) error {
	for i := 0; i < n; i++ {
		if err := s.requestRecovery(ctx, first, last, dob); err != nil {
			return fmt.Errorf("request %d: %w", i+1, err)
		}
	}
	return nil
}
