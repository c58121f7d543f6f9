package common

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (any, error)
	GetLastResponseStatus() int
	GetLastResponseBody() []byte
	SetClientIP(ip string)
	Remember(key string, v any)
	Recall(key string) (any, bool)
}

// RegisterSteps registers generic request and assertion steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^I am calling from IP "([^"]*)"$`, steps.callingFromIP)
	ctx.Step(`^I GET "([^"]*)"$`, steps.get)
	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, steps.fieldShouldEqual)
	ctx.Step(`^the response field "([^"]*)" should be true$`, steps.fieldShouldBeTrue)
	ctx.Step(`^the response should not contain field "([^"]*)"$`, steps.fieldShouldBeAbsent)
	ctx.Step(`^I remember the response field "([^"]*)"$`, steps.rememberField)
	ctx.Step(`^the response field "([^"]*)" should equal the remembered value$`, steps.fieldShouldEqualRemembered)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) callingFromIP(_ context.Context, ip string) error {
	s.tc.SetClientIP(ip)
	return nil
}

func (s *commonSteps) get(_ context.Context, path string) error {
	return s.tc.GET(path, nil)
}

func (s *commonSteps) statusShouldBe(_ context.Context, expected int) error {
	if got := s.tc.GetLastResponseStatus(); got != expected {
		return fmt.Errorf("expected status %d, got %d: %s", expected, got, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *commonSteps) fieldShouldEqual(_ context.Context, field, expected string) error {
	v, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if fmt.Sprint(v) != expected {
		return fmt.Errorf("expected %s=%q, got %q", field, expected, v)
	}
	return nil
}

func (s *commonSteps) fieldShouldBeTrue(_ context.Context, field string) error {
	v, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if b, ok := v.(bool); !ok || !b {
		return fmt.Errorf("expected %s to be true, got %v", field, v)
	}
	return nil
}

func (s *commonSteps) fieldShouldBeAbsent(_ context.Context, field string) error {
	if _, err := s.tc.GetResponseField(field); err == nil {
		return fmt.Errorf("expected field %q to be absent: %s", field, s.tc.GetLastResponseBody())
	}
	return nil
}

func (s *commonSteps) rememberField(_ context.Context, field string) error {
	v, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	s.tc.Remember(field, v)
	return nil
}

func (s *commonSteps) fieldShouldEqualRemembered(_ context.Context, field string) error {
	want, ok := s.tc.Recall(field)
	if !ok {
		return fmt.Errorf("nothing remembered for %q", field)
	}
	got, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("expected %s=%v, got %v", field, want, got)
	}
	return nil
}
