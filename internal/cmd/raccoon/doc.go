// Package raccooncmd contains the Cobra commands of the raccoon CLI.
//
// Each invocation opens the document store, runs one host operation and
// closes everything again, so a `save` behaves like opening the document,
// saving it and closing it in the CAD host.
package raccooncmd
