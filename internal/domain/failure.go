package domain

// TestFailure represents a failed test case as persisted for later viewing
type TestFailure struct {
	TestName   string   `json:"test_name"`
	FullName   string   `json:"full_name"`
	Class      string   `json:"class"`
	ErrorType  string   `json:"error_type"`
	Message    string   `json:"message"`
	StackTrace []string `json:"stack_trace"`
	Output     string   `json:"output,omitempty"`
	File       string   `json:"file"`
	Line       int      `json:"line"`
	Resolved   bool     `json:"resolved,omitempty"` // Track if test case is marked as resolved
}
