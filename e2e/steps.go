package e2e

import (
	"github.com/cucumber/godog"

	"ffwpu/e2e/steps/common"
	"ffwpu/e2e/steps/recovery"
)

// RegisterSteps registers all step definitions from modular packages.
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	recovery.RegisterSteps(ctx, tc)
}
