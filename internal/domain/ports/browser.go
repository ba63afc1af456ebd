package ports

// BrowserLauncher opens the served carousel page
type BrowserLauncher interface {
	// Launch opens a URL in the default browser unless noOpen is set
	Launch(url string, noOpen bool) error
	// Detect reports which browser would be used
	Detect() (string, error)
}
