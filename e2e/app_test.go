package e2e

import (
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// E2ETestSuite drives the dashboard in Chromium.
type E2ETestSuite struct {
	suite.Suite
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	expect  playwright.PlaywrightAssertions
}

// SetupSuite runs once before all tests
func (suite *E2ETestSuite) SetupSuite() {
	pw, err := playwright.Run()
	require.NoError(suite.T(), err, "could not launch playwright")
	suite.pw = pw

	browser, err := pw.Chromium.Launch()
	require.NoError(suite.T(), err, "could not launch chromium")
	suite.browser = browser

	suite.expect = playwright.NewPlaywrightAssertions()
}

// TearDownSuite runs once after all tests
func (suite *E2ETestSuite) TearDownSuite() {
	if suite.browser != nil {
		suite.browser.Close()
	}
	if suite.pw != nil {
		suite.pw.Stop()
	}
}

// SetupTest gives every test a fresh browser context, so no session leaks
// between tests.
func (suite *E2ETestSuite) SetupTest() {
	page, err := suite.browser.NewPage()
	require.NoError(suite.T(), err, "could not create page")
	suite.page = page
}

// TearDownTest runs after each test
func (suite *E2ETestSuite) TearDownTest() {
	if suite.page != nil {
		suite.page.Close()
	}
}

func (suite *E2ETestSuite) goTo(path string) {
	_, err := suite.page.Goto(appURL + path)
	require.NoError(suite.T(), err, "could not navigate to %s", path)
}

func (suite *E2ETestSuite) login(password string) {
	suite.goTo("/login")

	err := suite.page.Locator("input[name=email]").Fill(testEmail)
	require.NoError(suite.T(), err, "failed to fill email")

	err = suite.page.Locator("input[name=password]").Fill(password)
	require.NoError(suite.T(), err, "failed to fill password")

	err = suite.page.Locator("button[type=submit]:text('Log in')").Click()
	require.NoError(suite.T(), err, "failed to click login")
}

func (suite *E2ETestSuite) TestLoggedOutDashboard() {
	suite.goTo("/dashboard")

	err := suite.expect.Locator(suite.page.Locator(".panel-message")).ToHaveText("Please log in to view metrics.")
	require.NoError(suite.T(), err, "logged-out message missing")
}

func (suite *E2ETestSuite) TestLoginFailure() {
	suite.login("wrong-password")

	err := suite.expect.Locator(suite.page.Locator(".form-error")).ToHaveText("invalid credentials")
	require.NoError(suite.T(), err, "server error message not shown")
}

func (suite *E2ETestSuite) TestCompleteUserFlow() {
	suite.login(testPassword)

	// Dashboard metrics load through htmx after the redirect
	err := suite.expect.Page(suite.page).ToHaveURL(appURL + "/dashboard")
	require.NoError(suite.T(), err, "did not redirect to dashboard after login")
	err = suite.expect.Locator(suite.page.Locator("[data-metric=clients]")).ToBeVisible()
	require.NoError(suite.T(), err, "metrics did not load")

	// Create a client
	suite.goTo("/clients")
	err = suite.page.Locator("#client-form input[name=name]").Fill("Acme Corp")
	require.NoError(suite.T(), err, "failed to fill client name")
	err = suite.page.Locator("#client-form input[name=email]").Fill("ap@acme.test")
	require.NoError(suite.T(), err, "failed to fill client email")
	err = suite.page.Locator("#client-form button[type=submit]").Click()
	require.NoError(suite.T(), err, "failed to submit client")

	err = suite.expect.Locator(suite.page.Locator("#client-list td:text('Acme Corp')")).ToBeVisible()
	require.NoError(suite.T(), err, "new client not listed")
	err = suite.expect.Locator(suite.page.Locator("#client-form input[name=name]")).ToHaveValue("")
	require.NoError(suite.T(), err, "client form was not reset")

	// Invalid invoice is rejected locally
	suite.goTo("/invoices")
	_, err = suite.page.Locator("#invoice-form select[name=client_id]").SelectOption(playwright.SelectOptionValues{
		Labels: &[]string{"Acme Corp"},
	})
	require.NoError(suite.T(), err, "failed to select client")
	err = suite.page.Locator("#invoice-form input[name=number]").Fill("INV-100")
	require.NoError(suite.T(), err, "failed to fill number")
	err = suite.page.Locator("#invoice-form input[name=amount]").Fill("abc")
	require.NoError(suite.T(), err, "failed to fill amount")
	err = suite.page.Locator("#invoice-form input[name=due_date]").Fill("2026-12-01")
	require.NoError(suite.T(), err, "failed to fill due date")
	err = suite.page.Locator("#invoice-form button[type=submit]").Click()
	require.NoError(suite.T(), err, "failed to submit invoice")

	err = suite.expect.Locator(suite.page.Locator("#invoice-form-error")).ToHaveText("Fill out all invoice fields.")
	require.NoError(suite.T(), err, "validation message missing")

	// Fix the amount and submit again
	err = suite.page.Locator("#invoice-form input[name=amount]").Fill("12.5")
	require.NoError(suite.T(), err, "failed to fill amount")
	err = suite.page.Locator("#invoice-form button[type=submit]").Click()
	require.NoError(suite.T(), err, "failed to submit invoice")

	row := suite.page.Locator("#invoice-list tbody tr").First()
	err = suite.expect.Locator(row).ToContainText("INV-100")
	require.NoError(suite.T(), err, "invoice not listed")
	err = suite.expect.Locator(row).ToContainText("12.50 USD")
	require.NoError(suite.T(), err, "amount mismatch")
	err = suite.expect.Locator(row).ToContainText("2026-12-01")
	require.NoError(suite.T(), err, "due date mismatch")

	// Log out
	err = suite.page.Locator("button:text('Log out')").Click()
	require.NoError(suite.T(), err, "failed to log out")
	err = suite.expect.Page(suite.page).ToHaveURL(appURL + "/login")
	require.NoError(suite.T(), err, "did not land on login page")
}

// TestE2ESuite runs the e2e test suite
func TestE2ESuite(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}
