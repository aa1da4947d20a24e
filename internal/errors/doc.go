// Package errors provides coded, structured errors for navshell.
//
// Every fault the shell can report has a unique code (e.g. "N001") that maps
// to a category, a short message and a longer explanation. Errors wrap their
// cause so errors.Is and errors.As keep working across package boundaries.
//
// # Error Categories
//
//   - routing: path dispatch faults (no match, missing not-found handler)
//   - runtime: faults caught by the shell's error boundary
//   - storage: persistence faults (malformed stored data, backend failures)
//   - protocol: browser bridge frame faults
//   - config: configuration loading and validation
//
// # Usage
//
//	err := errors.New(errors.CodeDeserialize).
//	    WithDetail("key \"auth\" holds malformed JSON").
//	    Wrap(jsonErr)
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR N004: Stored value could not be decoded
//	//
//	//   key "auth" holds malformed JSON
package errors
