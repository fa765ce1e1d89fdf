package navtree

// DefaultSidebar is the name of the sidebar the site renders.
const DefaultSidebar = "mySidebar"

// Default returns the QA Flag documentation sidebar.
func Default() *Sidebars {
	sb, err := NewSidebar(DefaultSidebar,
		MustCategory("Getting Started",
			MustDoc("getting-started/intro", "About QA Flag"),
			MustDoc("getting-started/install", "Install the CLI"),
			MustDoc("getting-started/init", "Initialize the Project"),
			MustDoc("getting-started/first-test", "Writing Our First Test"),
			MustDoc("getting-started/test-structure", "Test Structure"),
		),
		MustCategory("Core Concepts",
			MustDoc("core-concepts/suite", "Suite"),
			MustDoc("core-concepts/scenario", "Scenario"),
			MustDoc("core-concepts/step", "Step"),
			MustDoc("core-concepts/context", "Context"),
			MustDoc("core-concepts/assertion", "Assertion"),
			MustDoc("core-concepts/persona", "Persona"),
			MustDoc("core-concepts/template", "Template"),
		),
		MustCategory("CLI",
			MustDoc("cli/init", "Initialize Project"),
			MustDoc("cli/generate-suite", "Generate New Suite"),
			MustDoc("cli/generate-persona", "Generate New Persona"),
			MustDoc("cli/list", "List Suites"),
			MustDoc("cli/plan", "Show Test Plan"),
			MustDoc("cli/build", "Build"),
			MustDoc("cli/run", "Run Suites"),
		),
		MustCategory("JSON",
			MustDoc("json/json-intro", "Testing a JSON API"),
			MustDoc("json/find", "Find"),
			MustDoc("json/data-payload", "Sending a Payload"),
			MustDoc("json/authentication", "Authentication"),
			MustDoc("json/schema", "Asserting a Schema"),
			MustDoc("json/array-assertions", "Array Assertions"),
		),
		MustCategory("Browser",
			MustDoc("playwright/playwright-intro", "Testing with Playwright"),
			MustDoc("playwright/locator", "Querying with Locator"),
			MustDoc("playwright/find", "Querying with Find"),
			MustDoc("playwright/visual", "Visual Comparison"),
		),
	)
	if err != nil {
		panic(err)
	}
	s, err := New(sb)
	if err != nil {
		panic(err)
	}
	return s
}
