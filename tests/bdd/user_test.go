package bdd

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cucumber/godog"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Paths:  []string{"./featureFiles"},
			Format: "pretty",
			Output: os.Stdout,
		},
	}

	if suite.Run() != 0 {
		t.Fail()
	}
}

// InitializeScenario bind Gherkin steps to their definitions
func InitializeScenario(s *godog.ScenarioContext) {
	s.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		resetAccountState()
		resetMessagingState()
		return ctx, nil
	})

	s.Step(`^an account with email "([^"]*)" and password "([^"]*)" exists$`, anAccountExists)
	s.Step(`^I attempt to login with "([^"]*)" and "([^"]*)"$`, iAttemptToLoginWith)
	s.Step(`^I should get a "([^"]*)" response$`, iShouldGetAResponse)
	s.Step(`^I should receive a valid session token$`, iShouldReceiveAValidSessionToken)
	s.Step(`^I register with email "([^"]*)" and username "([^"]*)"$`, iRegisterWith)
	s.Step(`^the registration should be rejected$`, theRegistrationShouldBeRejected)

	registerMessagingSteps(s)
}

var (
	accounts           map[string]string
	lastLoginResult    string
	lastSessionToken   string
	lastRegisterFailed bool
)

func resetAccountState() {
	accounts = map[string]string{}
	lastLoginResult = ""
	lastSessionToken = ""
	lastRegisterFailed = false
}

func anAccountExists(email, password string) error {
	accounts[email] = password
	return nil
}

func iAttemptToLoginWith(email, password string) error {
	if accounts[email] == password {
		lastLoginResult = "success"
		lastSessionToken = "token123"
	} else {
		lastLoginResult = "failure"
		lastSessionToken = ""
	}
	return nil
}

func iShouldGetAResponse(expected string) error {
	if lastLoginResult != expected {
		return fmt.Errorf("expected %s, but got %s", expected, lastLoginResult)
	}
	return nil
}

func iShouldReceiveAValidSessionToken() error {
	if lastSessionToken == "" {
		return fmt.Errorf("no session token received")
	}
	return nil
}

func iRegisterWith(email, username string) error {
	if _, taken := accounts[email]; taken {
		lastRegisterFailed = true
		return nil
	}
	accounts[email] = "pass1234"
	return nil
}

func theRegistrationShouldBeRejected() error {
	if !lastRegisterFailed {
		return fmt.Errorf("registration was accepted, expected rejection")
	}
	return nil
}
